package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// seed provisions the well-known smoke-test account and its profile.
// Safe to run repeatedly: an existing account is left in place and only
// its profile is rewritten.

const (
	defaultBaseURL  = "http://localhost:8080"
	defaultUserID   = "TaroYamada"
	defaultPassword = "PASSwd4TY"
	defaultNickname = "たろー"
	defaultComment  = "僕は元気です"
	defaultWait     = 30 * time.Second
)

type seeder struct {
	base   string
	client *http.Client
	logger *logrus.Logger
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	baseURL := envOr("SEED_BASE_URL", defaultBaseURL)
	userID := envOr("SEED_USER_ID", defaultUserID)
	password := envOr("SEED_PASSWORD", defaultPassword)
	nickname := envOr("SEED_NICKNAME", defaultNickname)
	comment := envOr("SEED_COMMENT", defaultComment)

	wait := defaultWait
	if v := os.Getenv("SEED_WAIT_LIMIT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			wait = d
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()

	s := &seeder{
		base:   strings.TrimRight(baseURL, "/"),
		client: &http.Client{Timeout: 5 * time.Second},
		logger: logger,
	}

	if err := s.waitReady(ctx); err != nil {
		logger.Fatalf("server not ready: %v", err)
	}
	if err := s.ensureAccount(ctx, userID, password); err != nil {
		logger.Fatalf("ensure account: %v", err)
	}
	if err := s.setProfile(ctx, userID, password, nickname, comment); err != nil {
		logger.Fatalf("set profile: %v", err)
	}

	logger.Infof("seeded account %s", userID)
}

func (s *seeder) waitReady(ctx context.Context) error {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.base+"/healthz", nil)
		if err != nil {
			return err
		}
		resp, err := s.client.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
			s.logger.Debugf("health check returned %d", resp.StatusCode)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *seeder) ensureAccount(ctx context.Context, userID, password string) error {
	body, err := json.Marshal(map[string]string{
		"user_id":  userID,
		"password": password,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.base+"/signup", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		s.logger.Infof("created account %s", userID)
		return nil
	case http.StatusBadRequest:
		var failure struct {
			Message string `json:"message"`
			Cause   string `json:"cause"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&failure); err != nil {
			return fmt.Errorf("signup rejected with an unreadable body")
		}
		if failure.Cause == "Already same user_id is used" {
			s.logger.Infof("account %s already exists", userID)
			return nil
		}
		return fmt.Errorf("signup rejected: %s (%s)", failure.Message, failure.Cause)
	default:
		return fmt.Errorf("signup returned status %d: %s", resp.StatusCode, readSnippet(resp.Body))
	}
}

func (s *seeder) setProfile(ctx context.Context, userID, password, nickname, comment string) error {
	body, err := json.Marshal(map[string]string{
		"nickname": nickname,
		"comment":  comment,
	})
	if err != nil {
		return err
	}

	endpoint := s.base + "/users/" + url.PathEscape(userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(userID, password)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("profile update returned status %d: %s", resp.StatusCode, readSnippet(resp.Body))
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 512))
	return strings.TrimSpace(string(b))
}
