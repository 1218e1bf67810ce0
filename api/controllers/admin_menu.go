package controllers

import (
	"net/http"

	"github.com/angelmondragon/menuflow-backend/api/validators"
	"github.com/angelmondragon/menuflow-backend/internal/menu"
	"github.com/angelmondragon/menuflow-backend/pkg/logger"
)

const menuService = "menu service"

// AdminListCategories lists the scoped restaurant's categories.
func AdminListCategories(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(menuService, svc != nil, logg, func(r *http.Request) (int, any, error) {
		actor, requested, err := adminScope(r)
		if err != nil {
			return 0, nil, err
		}
		return ok(svc.ListCategories(r.Context(), actor, requested))
	})
}

func AdminCreateCategory(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(menuService, svc != nil, logg, func(r *http.Request) (int, any, error) {
		actor, requested, err := adminScope(r)
		if err != nil {
			return 0, nil, err
		}
		body, err := decode[menu.CreateCategoryInput](r)
		if err != nil {
			return 0, nil, err
		}
		return created(svc.CreateCategory(r.Context(), actor, requested, body))
	})
}

func AdminUpdateCategory(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(menuService, svc != nil, logg, func(r *http.Request) (int, any, error) {
		actor, id, err := actorAndID(r, "categoryId")
		if err != nil {
			return 0, nil, err
		}
		body, err := decode[menu.UpdateCategoryInput](r)
		if err != nil {
			return 0, nil, err
		}
		return ok(svc.UpdateCategory(r.Context(), actor, id, body))
	})
}

// AdminDeleteCategory removes a category and, with it, its items.
func AdminDeleteCategory(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(menuService, svc != nil, logg, func(r *http.Request) (int, any, error) {
		actor, id, err := actorAndID(r, "categoryId")
		if err != nil {
			return 0, nil, err
		}
		return noContent(svc.DeleteCategory(r.Context(), actor, id))
	})
}

// AdminListItems lists items, optionally narrowed with ?categoryId.
func AdminListItems(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(menuService, svc != nil, logg, func(r *http.Request) (int, any, error) {
		actor, requested, err := adminScope(r)
		if err != nil {
			return 0, nil, err
		}
		categoryID, err := validators.ParseQueryUUID(r, "categoryId")
		if err != nil {
			return 0, nil, err
		}
		return ok(svc.ListItems(r.Context(), actor, requested, categoryID))
	})
}

func AdminCreateItem(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(menuService, svc != nil, logg, func(r *http.Request) (int, any, error) {
		actor, requested, err := adminScope(r)
		if err != nil {
			return 0, nil, err
		}
		body, err := decode[menu.CreateItemInput](r)
		if err != nil {
			return 0, nil, err
		}
		return created(svc.CreateItem(r.Context(), actor, requested, body))
	})
}

func AdminUpdateItem(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(menuService, svc != nil, logg, func(r *http.Request) (int, any, error) {
		actor, id, err := actorAndID(r, "itemId")
		if err != nil {
			return 0, nil, err
		}
		body, err := decode[menu.UpdateItemInput](r)
		if err != nil {
			return 0, nil, err
		}
		return ok(svc.UpdateItem(r.Context(), actor, id, body))
	})
}

func AdminDeleteItem(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(menuService, svc != nil, logg, func(r *http.Request) (int, any, error) {
		actor, id, err := actorAndID(r, "itemId")
		if err != nil {
			return 0, nil, err
		}
		return noContent(svc.DeleteItem(r.Context(), actor, id))
	})
}

func AdminListTables(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(menuService, svc != nil, logg, func(r *http.Request) (int, any, error) {
		actor, requested, err := adminScope(r)
		if err != nil {
			return 0, nil, err
		}
		return ok(svc.ListTables(r.Context(), actor, requested))
	})
}

func AdminCreateTable(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(menuService, svc != nil, logg, func(r *http.Request) (int, any, error) {
		actor, requested, err := adminScope(r)
		if err != nil {
			return 0, nil, err
		}
		body, err := decode[menu.CreateTableInput](r)
		if err != nil {
			return 0, nil, err
		}
		return created(svc.CreateTable(r.Context(), actor, requested, body))
	})
}

func AdminDeleteTable(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(menuService, svc != nil, logg, func(r *http.Request) (int, any, error) {
		actor, id, err := actorAndID(r, "tableId")
		if err != nil {
			return 0, nil, err
		}
		return noContent(svc.DeleteTable(r.Context(), actor, id))
	})
}
