package handlers

import (
	"meddata/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// ReferenceHandler serves allergy and chronic disease reference data.
type ReferenceHandler struct {
	service *services.ReferenceService
	log     *logrus.Logger
}

// NewReferenceHandler creates a new ReferenceHandler.
func NewReferenceHandler(service *services.ReferenceService, log *logrus.Logger) *ReferenceHandler {
	return &ReferenceHandler{service: service, log: log}
}

// RegisterRoutes exposes the lists publicly for the registration form; the
// diagnosis search needs a signed-in user.
func (h *ReferenceHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	router.Get("/allergies", h.HandleGetAllergies)
	router.Get("/chronic-diseases", h.HandleGetChronicDiseases)
	router.Get("/diagnoses/find-icd", authRequired, h.HandleFindICD)
}

// HandleGetAllergies lists the allergy dictionary.
func (h *ReferenceHandler) HandleGetAllergies(c *fiber.Ctx) error {
	allergies, err := h.service.ListAllergies(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err, "Could not retrieve allergies")
	}
	return c.JSON(allergies)
}

// HandleGetChronicDiseases lists the chronic disease dictionary.
func (h *ReferenceHandler) HandleGetChronicDiseases(c *fiber.Ctx) error {
	diseases, err := h.service.ListChronicDiseases(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err, "Could not retrieve chronic diseases")
	}
	return c.JSON(diseases)
}

// HandleFindICD searches diseases by ?q=. An empty query returns [].
func (h *ReferenceHandler) HandleFindICD(c *fiber.Ctx) error {
	diseases, err := h.service.SearchICD(c.UserContext(), c.Query("q"))
	if err != nil {
		return writeError(c, h.log, err, "Could not search diagnoses")
	}
	return c.JSON(diseases)
}
