package http

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/0xcro3dile/faqbot-go/internal/domain/entities"
)

const (
	clientCookie    = "widget_id"
	clientLocal     = "widget_client"
	colorSchemeHint = "Sec-CH-Prefers-Color-Scheme"
)

type chatRequest struct {
	Message string `json:"message" validate:"max=8000"`
}

type chatResponse struct {
	ID     string   `json:"id"`
	Reply  string   `json:"reply"`
	Source string   `json:"source"`
	Score  *float64 `json:"score,omitempty"`
}

type loginRequest struct {
	Username string `json:"username" validate:"max=256"`
	Password string `json:"password" validate:"max=256"`
}

type sessionResponse struct {
	LoggedIn bool   `json:"logged_in"`
	User     string `json:"user,omitempty"`
	Message  string `json:"message,omitempty"`
}

// handleIndex serves the widget page.
func (s *Server) handleIndex(c *fiber.Ctx) error {
	page, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		return err
	}
	c.Set("Accept-CH", colorSchemeHint)
	c.Type("html", "utf-8")
	return c.Send(page)
}

// handleHealth returns server health and dataset status.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	dataset := fiber.Map{"ready": false}
	if k := s.dataset.Current(); k != nil {
		dataset = fiber.Map{
			"ready":     true,
			"records":   k.Records,
			"skipped":   k.Skipped,
			"source":    k.Source,
			"loaded_at": k.LoadedAt.Format(time.RFC3339),
		}
	}
	resp := fiber.Map{"status": "ok", "dataset": dataset}
	if n, err := s.session.Clients(c.UserContext()); err == nil {
		resp["widget_clients"] = n
	} else {
		s.logger.Warn("counting widget clients", zap.Error(err))
	}
	return c.JSON(resp)
}

// handleChat resolves one widget message.
func (s *Server) handleChat(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := s.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	turn := s.chatbot.Respond(strings.TrimSpace(req.Message))

	resp := chatResponse{
		ID:     turn.ID,
		Reply:  turn.Reply.Text,
		Source: turn.Reply.Source,
	}
	if turn.Reply.Match {
		score := turn.Reply.Score
		resp.Score = &score
	}
	return c.JSON(resp)
}

func (s *Server) handleSessionStatus(c *fiber.Ctx) error {
	state, err := s.session.Status(c.UserContext(), client(c))
	if err != nil {
		return err
	}
	return c.JSON(sessionResponse{LoggedIn: state.LoggedIn, User: state.User})
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := s.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	msg, err := s.session.Login(c.UserContext(), client(c), req.Username, req.Password)
	if errors.Is(err, entities.ErrInvalidCredentials) {
		return c.Status(fiber.StatusUnauthorized).JSON(sessionResponse{Message: msg})
	}
	if err != nil {
		return err
	}
	return c.JSON(sessionResponse{LoggedIn: true, User: req.Username, Message: msg})
}

func (s *Server) handleLogout(c *fiber.Ctx) error {
	msg, err := s.session.Logout(c.UserContext(), client(c))
	if err != nil {
		return err
	}
	return c.JSON(sessionResponse{Message: msg})
}

func (s *Server) handleTheme(c *fiber.Ctx) error {
	theme, err := s.session.Theme(c.UserContext(), client(c), prefersDark(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"theme": theme})
}

func (s *Server) handleToggleTheme(c *fiber.Ctx) error {
	theme, err := s.session.ToggleTheme(c.UserContext(), client(c), prefersDark(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"theme": theme})
}

// widgetClient identifies the browser by a uuid cookie, issuing one on
// first contact. Preferences are keyed by it.
func (s *Server) widgetClient(c *fiber.Ctx) error {
	id := c.Cookies(clientCookie)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     clientCookie,
			Value:    id,
			Path:     "/",
			Expires:  time.Now().AddDate(1, 0, 0),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	c.Locals(clientLocal, id)
	return c.Next()
}

func client(c *fiber.Ctx) string {
	id, _ := c.Locals(clientLocal).(string)
	return id
}

func prefersDark(c *fiber.Ctx) bool {
	return strings.EqualFold(strings.Trim(c.Get(colorSchemeHint), `"`), "dark")
}
