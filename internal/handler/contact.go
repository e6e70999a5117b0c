package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sokogo/sokogo-backend/internal/mailer"
	"github.com/sokogo/sokogo-backend/internal/repository"
	"github.com/sokogo/sokogo-backend/internal/utils"
)

// ContactHandler forwards buyer inquiries and site contact-form
// submissions by email.
type ContactHandler struct {
	Items *repository.ItemRepo
	Users *repository.UserRepo
	Mail  *mailer.Mailer
}

func NewContactHandler(items *repository.ItemRepo, users *repository.UserRepo, mail *mailer.Mailer) *ContactHandler {
	return &ContactHandler{Items: items, Users: users, Mail: mail}
}

// Inquiry handles POST /api/contact/inquiry: an authenticated buyer
// asks the seller of a listing a question.  Sellers cannot inquire
// about their own listings.
func (h *ContactHandler) Inquiry(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req struct {
		ItemID  uint64 `json:"itemId"`
		Message string `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.ItemID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "itemId is required"})
	}
	if len(req.Message) < 10 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "message must be at least 10 characters"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	it, err := h.Items.GetByID(ctx, req.ItemID)
	if err != nil {
		return fail(c, err)
	}
	if it.SellerID == uid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot inquire about your own listing"})
	}
	buyer, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return fail(c, err)
	}
	seller, err := h.Users.GetByID(ctx, it.SellerID)
	if err != nil {
		return fail(c, err)
	}
	if err := h.Mail.SendInquiry(buyer, seller, it, req.Message); err != nil {
		if err == mailer.ErrNotConfigured {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "email service is not configured"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to send inquiry"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "inquiry sent to seller"})
}

// ContactForm handles POST /api/contact/contact: the public site form,
// delivered to the admin address.
func (h *ContactHandler) ContactForm(c echo.Context) error {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Message = strings.TrimSpace(req.Message)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if !utils.ValidEmail(req.Email) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "a valid email is required"})
	}
	if len(req.Message) < 10 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "message must be at least 10 characters"})
	}
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = "General inquiry"
	}
	if err := h.Mail.SendContactForm(req.Name, req.Email, subject, req.Message); err != nil {
		if err == mailer.ErrNotConfigured {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "email service is not configured"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to send message"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "message sent"})
}

// TestEmail handles GET /api/contact/test-email: reports whether the
// mailer is configured without sending anything.
func (h *ContactHandler) TestEmail(c echo.Context) error {
	if h.Mail == nil || !h.Mail.Configured() {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"configured": false,
			"error":      "email service is not configured",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"configured": true})
}
