package handlers

import (
	"github.com/jmoiron/sqlx"

	"milkcart/internal/config"
	"milkcart/internal/repos"
	"milkcart/internal/services"
)

type Deps struct {
	AuthHandler    *AuthHandler
	ProfileHandler *ProfileHandler
	CatalogHandler *CatalogHandler
	OrderHandler   *OrderHandler
	AdminHandler   *AdminHandler
	UploadHandler  *UploadHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) *Deps {
	prodRepo := repos.NewProductRepo(db)
	catalogSvc := services.NewCatalogService(
		repos.NewCategoryRepo(db), prodRepo, repos.NewInventoryRepo(db))
	orderSvc := services.NewOrderService(
		prodRepo, repos.NewOrderRepo(db), repos.NewSubscriptionRepo(db))
	userSvc := services.NewUserService(auth.Users)

	return &Deps{
		AuthHandler:    &AuthHandler{Auth: auth},
		ProfileHandler: &ProfileHandler{Users: userSvc},
		CatalogHandler: &CatalogHandler{Catalog: catalogSvc},
		OrderHandler:   &OrderHandler{Orders: orderSvc},
		AdminHandler:   &AdminHandler{Catalog: catalogSvc, Orders: orderSvc, Users: userSvc},
		UploadHandler:  &UploadHandler{MediaDir: cfg.MediaDir},
	}
}
