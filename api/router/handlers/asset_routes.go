package handlers

import (
	"github.com/go-chi/chi/v5"
)

func RegisterAssetRoutes(r chi.Router) {
	r.Get("/assets", getAssets)
	r.Post("/assets", createAsset)
	r.Get("/assets/export", exportHandler("assets"))
	r.Get("/assets/{assetID}", getAssetByID)
	r.Delete("/assets/{assetID}", deleteAsset)
}
