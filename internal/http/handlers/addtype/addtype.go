// Package addtype реализует административный HTTP-обработчик добавления
// нового типа уведомления в каталог категорий.
package addtype

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/notification-dispatcher/internal/catalog"
	"github.com/magabrotheeeer/notification-dispatcher/internal/http/response"
	"github.com/magabrotheeeer/notification-dispatcher/internal/lib/sl"
	"github.com/magabrotheeeer/notification-dispatcher/internal/models"
)

// Handler управляет HTTP-запросами на пополнение каталога типов.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики каталога
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики добавления типа уведомления.
type Service interface {
	AddNotificationType(ctx context.Context, notificationType, category string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Добавить тип уведомления
// @Description Регистрирует новый тип уведомления в категории. Повторное добавление существующего типа — ошибка.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param request body models.DummyTypeCategory true "Тип и категория"
// @Success 200 {object} map[string]any "Тип добавлен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или категория"
// @Failure 409 {object} response.ErrorResponse "Тип уже существует"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при добавлении типа"
// @Router /admin/notification-types [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.addtype"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyTypeCategory
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	err := h.service.AddNotificationType(r.Context(), req.NotificationType, req.Category)
	switch {
	case errors.Is(err, catalog.ErrInvalidCategory):
		log.Warn("invalid category", slog.String("category", req.Category))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	case errors.Is(err, catalog.ErrTypeAlreadyExists):
		log.Warn("notification type already exists", slog.String("notification_type", req.NotificationType))
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error(err.Error()))
		return
	case err != nil:
		log.Error("failed to add notification type", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not add notification type"))
		return
	}

	log.Info("notification type added",
		slog.String("notification_type", req.NotificationType),
		slog.String("category", req.Category))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "notification type added successfully",
	}))
}
