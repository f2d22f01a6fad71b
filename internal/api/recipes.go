// recipes.go - Recipe CRUD and food-cost calculation.

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mitbach-app/invoice_ocr_backend/internal/auth"
	"github.com/mitbach-app/invoice_ocr_backend/internal/foodcost"
	"github.com/mitbach-app/invoice_ocr_backend/internal/processor"
	"github.com/mitbach-app/invoice_ocr_backend/internal/storage"
)

type recipeRequest struct {
	Name        string `json:"name"`
	Servings    int    `json:"servings"`
	Ingredients []struct {
		Name     string  `json:"name"`
		Quantity float64 `json:"quantity"`
		Unit     string  `json:"unit"`
	} `json:"ingredients"`
}

func (s *Server) handleListRecipes(c *gin.Context) {
	if !requireStorage(c) {
		return
	}

	data, err := storage.GetOrLoadKitchenData(auth.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load recipes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data.Recipes})
}

func (s *Server) handleCreateRecipe(c *gin.Context) {
	if !requireStorage(c) {
		return
	}

	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	if len(req.Ingredients) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one ingredient is required"})
		return
	}

	userID := auth.UserID(c)
	recipe := &storage.Recipe{
		UserID:   userID,
		Name:     strings.TrimSpace(req.Name),
		Servings: req.Servings,
	}
	for _, ing := range req.Ingredients {
		if strings.TrimSpace(ing.Name) == "" || ing.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "every ingredient needs a name and a positive quantity"})
			return
		}
		recipe.Ingredients = append(recipe.Ingredients, storage.Ingredient{
			Name:     strings.TrimSpace(ing.Name),
			Quantity: ing.Quantity,
			Unit:     processor.NormalizeUnit(ing.Unit),
		})
	}

	id, err := storage.SaveRecipe(recipe)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save recipe"})
		return
	}
	storage.InvalidateCache(userID)

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": gin.H{"id": id}})
}

// handleRecipeCost prices every ingredient against the latest inventory
// purchase prices.
func (s *Server) handleRecipeCost(c *gin.Context) {
	if !requireStorage(c) {
		return
	}
	userID := auth.UserID(c)

	recipe, err := storage.GetRecipe(userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	names := make([]string, len(recipe.Ingredients))
	for i, ing := range recipe.Ingredients {
		names[i] = ing.Name
	}
	inventory, err := storage.FindInventoryItems(userID, names)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load inventory"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": foodcost.Calculate(recipe, inventory)})
}
