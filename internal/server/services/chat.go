package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/adithya/trackfolio/internal/common"
	"github.com/adithya/trackfolio/internal/server/auth"
	"github.com/adithya/trackfolio/internal/server/config"
	"github.com/adithya/trackfolio/internal/server/repositories/repomanager"
)

// ChatService composes a prompt from a drive's stored JD text, the user's
// skill list, and the question, sends it to the configured AI service, and
// relays the answer verbatim.
type ChatService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	driveSvc    *DriveService
	config      *config.Config
	client      *http.Client
}

// NewChatService constructs a ChatService.
func NewChatService(db *sql.DB, m repomanager.RepositoryManager, driveSvc *DriveService, cfg *config.Config) *ChatService {
	return &ChatService{
		db:          db,
		repomanager: m,
		driveSvc:    driveSvc,
		config:      cfg,
		client:      &http.Client{Timeout: 60 * time.Second},
	}
}

// Ask answers a question about a drive. The drive must belong to the caller
// and have an uploaded JD.
func (s *ChatService) Ask(ctx context.Context, driveID int64, question string) (string, error) {
	principal, err := auth.CurrentPrincipal(ctx)
	if err != nil {
		return "", err
	}
	if _, err := s.driveSvc.ownedDrive(ctx, s.db, principal, driveID); err != nil {
		return "", err
	}

	jd, err := s.repomanager.JDs(s.db).GetByDrive(ctx, driveID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("error loading jd: %w", err)
	}

	userSkills, err := s.repomanager.Skills(s.db).ListByUser(ctx, principal.UserID)
	if err != nil {
		return "", fmt.Errorf("error listing skills: %w", err)
	}

	return s.send(ctx, composePrompt(jd.Text, userSkills, question))
}

func composePrompt(jdText string, userSkills []string, question string) string {
	var b strings.Builder
	b.WriteString("Job description:\n")
	b.WriteString(jdText)
	b.WriteString("\n\nCandidate skills: ")
	b.WriteString(strings.Join(userSkills, ", "))
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	return b.String()
}

func (s *ChatService) send(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return "", fmt.Errorf("error encoding prompt: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.AIServiceURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("error building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error calling ai service: %w", err)
	}
	defer resp.Body.Close()

	answer, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading ai response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ai service returned status %d", resp.StatusCode)
	}
	return string(answer), nil
}
