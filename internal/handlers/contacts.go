package handlers

import (
	"net/http"

	"churchdir/internal/models"
	"churchdir/internal/services"
	helpers "churchdir/internal/utils/helpers"

	"github.com/gorilla/mux"
)

type ContactHandler struct {
	authService *services.AuthService
}

func NewContactHandler(authService *services.AuthService) *ContactHandler {
	return &ContactHandler{authService: authService}
}

// List godoc
// @Summary Справочник контактов
// @Tags contacts
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.Account
// @Router /api/contacts [get]
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.authService.ListAccounts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, accounts)
}

// Get godoc
// @Summary Контакт по ID
// @Tags contacts
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "ID контакта"
// @Success 200 {object} models.Account
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/contacts/{id} [get]
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	acc, err := h.authService.GetAccount(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, acc)
}

// Update godoc
// @Summary Обновление контакта (только админ)
// @Tags contacts
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "ID контакта"
// @Param input body models.UpdateAccountRequest true "Изменяемые поля"
// @Success 200 {object} models.Account
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/contacts/{id} [put]
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateAccountRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	acc, err := h.authService.UpdateAccount(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, acc)
}

// Delete godoc
// @Summary Удаление контакта (только админ)
// @Tags contacts
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "ID контакта"
// @Success 200 {object} messageResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/contacts/{id} [delete]
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.DeleteAccount(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, messageResponse{Success: true, Message: "Contact deleted"})
}
