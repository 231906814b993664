package profilescraper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/yigit/placementportal/internal/pkg/validation"
)

var (
	// ErrInvalidUsername is returned before any process is started
	ErrInvalidUsername = errors.New("invalid username")
	// ErrProfileNotFound is returned when the scraper reports an unknown user
	ErrProfileNotFound = errors.New("profile not found")
	// ErrScraperFailed covers timeouts, crashes and unreadable output
	ErrScraperFailed = errors.New("profile scraper failed")
)

// Language is the number of problems solved in one language
type Language struct {
	Name   string `json:"name"`
	Solved int    `json:"solved"`
}

// Badge is an earned profile badge
type Badge struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Info is the public profile card
type Info struct {
	Avatar   string   `json:"avatar"`
	Name     string   `json:"name"`
	Company  string   `json:"company"`
	School   string   `json:"school"`
	Websites []string `json:"websites"`
}

// Profile is the public coding profile of a user
type Profile struct {
	Username            string     `json:"username"`
	Ranking             int        `json:"ranking"`
	TotalProblemsSolved int        `json:"total_problems_solved"`
	ContributionPoints  int        `json:"contribution_points"`
	AcceptanceRate      float64    `json:"acceptance_rate"`
	Country             string     `json:"country"`
	Languages           []Language `json:"languages"`
	Badges              []Badge    `json:"badges"`
	ProfileInfo         Info       `json:"profile_info"`
}

// Scraper fetches public coding profiles
type Scraper interface {
	Scrape(ctx context.Context, username string) (*Profile, error)
}

// CommandScraper runs an external program with the username as its last
// argument and decodes the JSON it prints on stdout.
type CommandScraper struct {
	command string
	args    []string
	timeout time.Duration
}

// NewCommandScraper creates a new CommandScraper
func NewCommandScraper(command string, args []string, timeout time.Duration) *CommandScraper {
	return &CommandScraper{
		command: command,
		args:    args,
		timeout: timeout,
	}
}

// Scrape runs the scraper for username
func (s *CommandScraper) Scrape(ctx context.Context, username string) (*Profile, error) {
	if !validation.IsValidHandle(username) {
		return nil, ErrInvalidUsername
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	args := append(append([]string{}, s.args...), username)
	cmd := exec.CommandContext(ctx, s.command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrScraperFailed, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %v: %s", ErrScraperFailed, err, strings.TrimSpace(stderr.String()))
	}

	return decodeProfile(stdout.Bytes())
}

func decodeProfile(out []byte) (*Profile, error) {
	var envelope struct {
		Error string `json:"error"`
		Profile
	}
	if err := json.Unmarshal(out, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decoding output: %v", ErrScraperFailed, err)
	}
	if envelope.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, envelope.Error)
	}
	if envelope.Username == "" {
		return nil, ErrProfileNotFound
	}

	p := envelope.Profile
	if p.Languages == nil {
		p.Languages = []Language{}
	}
	if p.Badges == nil {
		p.Badges = []Badge{}
	}
	if p.ProfileInfo.Websites == nil {
		p.ProfileInfo.Websites = []string{}
	}
	return &p, nil
}
