package services

import (
	"fmt"
	"hash/fnv"
	"net/url"

	"labelpulse-api/internal/models"
)

const imageEndpoint = "https://image.pollinations.ai/prompt/"

var genreStyles = map[string]string{
	"Melodic Techno":    "neon lights, futuristic, purple haze, abstract geometric, 4k render",
	"Deep House":        "sunset, ibiza beach, luxury yacht, cocktail, cinematic lighting",
	"Cyberpunk Bass":    "cyberpunk city, glitch art, matrix code, neon rain, sci-fi",
	"Liquid DnB":        "fluid art, blue water, abstract flow, motion blur, smooth",
	"Lo-Fi Beats":       "anime aesthetic, rainy window, cozy room, cat, coffee",
	"Synthwave":         "retro car, 80s grid, palm trees, vaporwave, neon pink sun",
	"Industrial Techno": "concrete texture, factory smoke, dark warehouse, industrial",
	"Future Bass":       "colorful smoke, festival crowd, lasers, vibrant clouds",
	"Trap":              "urban city night, gold chain, luxury sports car, street lights",
	"Ambient":           "nebula, stars, galaxy, aurora borealis, peaceful nature",
	"Trance":            "laser light show, tunnel, speed lines, energy, euphoria",
	"Dubstep":           "speaker system, shockwave, lightning, explosion, dark energy",
	"Indie Dance":       "disco ball, dance floor, retro fashion, vinyl record",
	"Nu-Disco":          "glitter, roller skates, 70s style, funk, vibrant colors",
	"Hardstyle":         "red lasers, massive stage, fireworks, hardstyle festival",
}

// GenreKeywords returns the cover art keywords for a genre.
func GenreKeywords(genre string) string {
	if genre == "" {
		genre = "Unknown"
	}
	if style, ok := genreStyles[genre]; ok {
		return style
	}
	return genre + " music abstract art"
}

// GenerateAsset builds the cover art prompt URL for a release. The image seed
// is derived from the release id so the same release always maps to the same
// URL.
func GenerateAsset(release *models.Release) models.AssetResponse {
	keywords := GenreKeywords(release.Genre)
	return models.AssetResponse{
		ImageURL: fmt.Sprintf("%s%s?width=1280&height=720&nologo=true&seed=%d",
			imageEndpoint, url.PathEscape(keywords), assetSeed(release.ID)),
		Keywords: keywords,
	}
}

// assetSeed maps an id into [1000, 9999].
func assetSeed(id string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(id))
	return h.Sum32()%9000 + 1000
}
