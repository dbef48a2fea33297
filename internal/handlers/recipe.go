package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ladle-dev/ladle/internal/models"
	"github.com/ladle-dev/ladle/internal/types"
	"github.com/ladle-dev/ladle/internal/utils"
)

type CreateRecipeRequest struct {
	Name           string             `json:"name" binding:"required"`
	Category       string             `json:"category"`
	Description    string             `json:"description"`
	Instructions   string             `json:"instructions"`
	PrepMinutes    int                `json:"prep_minutes"`
	CookMinutes    int                `json:"cook_minutes"`
	Servings       int                `json:"servings"`
	CostPerServing float64            `json:"cost_per_serving"`
	Ingredients    []types.Ingredient `json:"ingredients"`
}

type UpdateRecipeRequest = CreateRecipeRequest

type RecipeResponse struct {
	ID             uint               `json:"id"`
	Name           string             `json:"name"`
	Category       string             `json:"category"`
	Description    string             `json:"description"`
	Instructions   string             `json:"instructions"`
	PrepMinutes    int                `json:"prep_minutes"`
	CookMinutes    int                `json:"cook_minutes"`
	Servings       int                `json:"servings"`
	CostPerServing float64            `json:"cost_per_serving"`
	Ingredients    []types.Ingredient `json:"ingredients"`
}

func recipeResponse(recipe *models.Recipe) RecipeResponse {
	var ingredients []types.Ingredient
	if len(recipe.Ingredients) > 0 {
		_ = json.Unmarshal(recipe.Ingredients, &ingredients)
	}

	return RecipeResponse{
		ID:             recipe.ID,
		Name:           recipe.Name,
		Category:       recipe.Category,
		Description:    recipe.Description,
		Instructions:   recipe.Instructions,
		PrepMinutes:    recipe.PrepMinutes,
		CookMinutes:    recipe.CookMinutes,
		Servings:       recipe.Servings,
		CostPerServing: recipe.CostPerServing,
		Ingredients:    ingredients,
	}
}

func marshalIngredients(ingredients []types.Ingredient) (datatypes.JSON, error) {
	if ingredients == nil {
		ingredients = []types.Ingredient{}
	}
	raw, err := json.Marshal(ingredients)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func (h *Handler) CreateRecipe(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var req CreateRecipeRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	ingredients, err := marshalIngredients(req.Ingredients)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid ingredients"})
		return
	}

	recipe := models.Recipe{
		UserID:         userID,
		Name:           req.Name,
		Category:       req.Category,
		Description:    req.Description,
		Instructions:   req.Instructions,
		PrepMinutes:    req.PrepMinutes,
		CookMinutes:    req.CookMinutes,
		Servings:       req.Servings,
		CostPerServing: req.CostPerServing,
		Ingredients:    ingredients,
		IsActive:       true,
	}

	if err := h.db.Create(&recipe).Error; err != nil {
		h.log.WithError(err).Error("creating recipe")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create recipe"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"recipe": recipeResponse(&recipe)})
}

func (h *Handler) ListRecipes(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	page := getPageParams(ctx)

	query := h.db.Model(&models.Recipe{}).Where("user_id = ? AND is_active = ?", userID, true)

	if category := ctx.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	if search := ctx.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var total int64

	if err := query.Count(&total).Error; err != nil {
		h.log.WithError(err).Error("counting recipes")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve recipes"})
		return
	}

	var recipes []models.Recipe

	if err := query.Order("id").Offset(page.Offset()).Limit(page.Limit).Find(&recipes).Error; err != nil {
		h.log.WithError(err).Error("listing recipes")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve recipes"})
		return
	}

	items := make([]RecipeResponse, 0, len(recipes))

	for i := range recipes {
		items = append(items, recipeResponse(&recipes[i]))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items":      items,
		"pagination": makePagination(page, total),
	})
}

func (h *Handler) getRecipe(ctx *gin.Context) (*models.Recipe, bool) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return nil, false
	}

	id, err := utils.GetIDParam(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id"})
		return nil, false
	}

	var recipe models.Recipe

	// Rows owned by other tenants are indistinguishable from absent ones.
	if err := h.db.Where("id = ? AND user_id = ? AND is_active = ?", id, userID, true).First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Recipe not found"})
		} else {
			h.log.WithError(err).Error("fetching recipe")
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve recipe"})
		}
		return nil, false
	}

	return &recipe, true
}

func (h *Handler) GetRecipe(ctx *gin.Context) {
	recipe, ok := h.getRecipe(ctx)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"recipe": recipeResponse(recipe)})
}

func (h *Handler) UpdateRecipe(ctx *gin.Context) {
	recipe, ok := h.getRecipe(ctx)

	if !ok {
		return
	}

	var req UpdateRecipeRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	ingredients, err := marshalIngredients(req.Ingredients)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid ingredients"})
		return
	}

	recipe.Name = req.Name
	recipe.Category = req.Category
	recipe.Description = req.Description
	recipe.Instructions = req.Instructions
	recipe.PrepMinutes = req.PrepMinutes
	recipe.CookMinutes = req.CookMinutes
	recipe.Servings = req.Servings
	recipe.CostPerServing = req.CostPerServing
	recipe.Ingredients = ingredients

	if err := h.db.Save(recipe).Error; err != nil {
		h.log.WithError(err).Error("updating recipe")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update recipe"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"recipe": recipeResponse(recipe)})
}

// DeleteRecipe soft-deletes: the row stays, flagged inactive.
func (h *Handler) DeleteRecipe(ctx *gin.Context) {
	recipe, ok := h.getRecipe(ctx)

	if !ok {
		return
	}

	if err := h.db.Model(recipe).Update("is_active", false).Error; err != nil {
		h.log.WithError(err).Error("deleting recipe")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete recipe"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Recipe deleted"})
}
