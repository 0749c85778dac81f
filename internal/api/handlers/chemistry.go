package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cell-testbench/internal/api/models"
	"cell-testbench/internal/model"
)

// ChemistryHandler serves the supported chemistry descriptors so
// configuration UIs can populate their pickers.
type ChemistryHandler struct{}

// NewChemistryHandler creates a new chemistry handler
func NewChemistryHandler() *ChemistryHandler {
	return &ChemistryHandler{}
}

// ListChemistries handles GET /api/v1/chemistries
func (h *ChemistryHandler) ListChemistries(c *gin.Context) {
	chems := model.Chemistries()
	out := make([]models.ChemistryInfo, 0, len(chems))
	for _, chem := range chems {
		band := chem.Band()
		out = append(out, models.ChemistryInfo{
			Name:           string(chem),
			MinVoltage:     band.Min,
			MaxVoltage:     band.Max,
			NominalVoltage: band.Nominal,
		})
	}
	c.JSON(http.StatusOK, models.ChemistriesResponse{Chemistries: out})
}
