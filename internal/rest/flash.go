package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"
)

const (
	sessionName     = "catalog_session"
	successFlashKey = "success"
)

// Flashes carries one-shot messages across a redirect in a signed cookie
type Flashes struct {
	store sessions.Store
}

func NewFlashes(secret string) *Flashes {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   3600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Flashes{store: store}
}

// Success queues message for the next page the client loads
func (f *Flashes) Success(c *gin.Context, message string) {
	session, err := f.store.Get(c.Request, sessionName)
	if err != nil {
		// an undecodable cookie still yields a fresh session
		log.Warn().Err(err).Msg("Discarding unreadable session cookie")
	}

	session.AddFlash(message, successFlashKey)
	if err := session.Save(c.Request, c.Writer); err != nil {
		log.Error().Err(err).Msg("Failed to save flash message")
	}
}

// PopSuccess returns and clears the queued success messages
func (f *Flashes) PopSuccess(c *gin.Context) []string {
	session, err := f.store.Get(c.Request, sessionName)
	if err != nil {
		return nil
	}

	raw := session.Flashes(successFlashKey)
	if len(raw) == 0 {
		return nil
	}

	if err := session.Save(c.Request, c.Writer); err != nil {
		log.Error().Err(err).Msg("Failed to clear flash messages")
	}

	messages := make([]string, 0, len(raw))
	for _, m := range raw {
		if s, ok := m.(string); ok {
			messages = append(messages, s)
		}
	}
	return messages
}
