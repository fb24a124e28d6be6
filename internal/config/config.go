package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks when no path is given.
const DefaultPath = "config.yaml"

// DefaultFallbackMatch is the substring used to find the team in the standings
// when the configured name does not appear verbatim.
const DefaultFallbackMatch = "Extramurs"

// Team describes the tracked team
type Team struct {
	Name          string `yaml:"name" validate:"required"`
	ShortName     string `yaml:"shortName" validate:"required"`
	Group         string `yaml:"group"`
	Logo          string `yaml:"logo"`
	Background    string `yaml:"background"`
	FallbackMatch string `yaml:"fallbackMatch"`
}

// Source holds the federation identifiers shared by every page URL
type Source struct {
	Season      string `yaml:"season" validate:"required"`
	Modality    string `yaml:"modality" validate:"required"`
	Competition string `yaml:"competition" validate:"required"`
	Tournament  string `yaml:"tournament" validate:"required"`
	TeamID      string `yaml:"teamId"`
}

// URLs holds the page endpoints without query strings
type URLs struct {
	Calendar  string `yaml:"calendar" validate:"required,url"`
	Standings string `yaml:"standings" validate:"required,url"`
	Roster    string `yaml:"roster" validate:"omitempty,url"`
	Match     string `yaml:"match" validate:"omitempty,url"`
}

// Scraping controls fetch behaviour
type Scraping struct {
	MaxRetries    int           `yaml:"maxRetries" validate:"gte=1,lte=10"`
	RetryDelay    time.Duration `yaml:"retryDelay" validate:"gte=0"`
	PageTimeout   time.Duration `yaml:"pageTimeout" validate:"gt=0"`
	RequestDelay  time.Duration `yaml:"requestDelay" validate:"gte=0"`
	JerseyMatches int           `yaml:"jerseyMatches" validate:"gte=0"`
	UserAgent     string        `yaml:"userAgent"`
}

// Site describes where the generated files are published
type Site struct {
	BaseURL  string `yaml:"baseUrl" validate:"omitempty,url"`
	Season   string `yaml:"season"`
	Timezone string `yaml:"timezone"`
}

// Images controls roster photo post-processing
type Images struct {
	Enabled          bool    `yaml:"enabled"`
	RemoveBackground bool    `yaml:"removeBackground"`
	RemoveBgAPIKey   string  `yaml:"removeBgApiKey"`
	Upscale          bool    `yaml:"upscale"`
	UpscaleFactor    float64 `yaml:"upscaleFactor" validate:"omitempty,gte=1,lte=8"`
}

// Config is the full run configuration
type Config struct {
	Team       Team     `yaml:"team"`
	Source     Source   `yaml:"source"`
	URLs       URLs     `yaml:"urls"`
	Scraping   Scraping `yaml:"scraping"`
	Site       Site     `yaml:"site"`
	Images     Images   `yaml:"images"`
	SeasonYear int      `yaml:"seasonYear" validate:"gte=2000,lte=2100"`
	DataDir    string   `yaml:"dataDir"`
}

// Defaults returns a configuration with every optional value filled in.
func Defaults() *Config {
	return &Config{
		Team: Team{FallbackMatch: DefaultFallbackMatch},
		Scraping: Scraping{
			MaxRetries:    3,
			RetryDelay:    5 * time.Second,
			PageTimeout:   30 * time.Second,
			RequestDelay:  2 * time.Second,
			JerseyMatches: 3,
		},
		Site:       Site{Timezone: "Europe/Madrid"},
		Images:     Images{UpscaleFactor: 2},
		SeasonYear: time.Now().Year(),
		DataDir:    ".",
	}
}

// Load reads .env (if present), parses the YAML file at path over Defaults,
// applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	_ = godotenv.Load(".env")

	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over Defaults, applies environment overrides and validates.
func Parse(data []byte) (*Config, error) {
	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv lets secrets and deployment paths come from the environment.
func (c *Config) applyEnv() {
	c.Images.RemoveBgAPIKey = envOr("MATCHDAY_REMOVEBG_API_KEY", c.Images.RemoveBgAPIKey)
	c.DataDir = envOr("MATCHDAY_DATA_DIR", c.DataDir)
	c.Site.BaseURL = envOr("MATCHDAY_SITE_URL", c.Site.BaseURL)
	if v := os.Getenv("MATCHDAY_SEASON_YEAR"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.SeasonYear = n
		}
	}
	if c.Team.FallbackMatch == "" {
		c.Team.FallbackMatch = DefaultFallbackMatch
	}
}

var validate = validator.New()

// Validate checks struct constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Images.RemoveBackground && c.Images.Enabled && c.Images.RemoveBgAPIKey == "" {
		return fmt.Errorf("invalid config: images.removeBackground requires removeBgApiKey or MATCHDAY_REMOVEBG_API_KEY")
	}
	return nil
}

// Location returns the site timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Site.Timezone)
	if err != nil || c.Site.Timezone == "" {
		return time.UTC
	}
	return loc
}

// param is one query parameter; a slice keeps the federation's parameter order.
type param struct {
	key, value string
}

func (c *Config) baseParams() []param {
	return []param{
		{"id_temp", c.Source.Season},
		{"id_modalidad", c.Source.Modality},
		{"id_competicion", c.Source.Competition},
		{"id_torneo", c.Source.Tournament},
	}
}

// buildURL appends params to base in order.
func buildURL(base string, params []param) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, url.QueryEscape(p.key)+"="+url.QueryEscape(p.value))
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + strings.Join(parts, "&")
}

// CalendarURL is the fixtures page.
func (c *Config) CalendarURL() string {
	return buildURL(c.URLs.Calendar, c.baseParams())
}

// StandingsURL is the league table page.
func (c *Config) StandingsURL() string {
	return buildURL(c.URLs.Standings, c.baseParams())
}

// RosterURL is the squad page.
func (c *Config) RosterURL() string {
	params := append(c.baseParams(), param{"id_equipo", c.Source.TeamID}, param{"torneo_equipo", ""})
	return buildURL(c.URLs.Roster, params)
}

// MatchURL is one match detail page. round may be nil.
func (c *Config) MatchURL(matchID string, round *int) string {
	jornada := ""
	if round != nil {
		jornada = strconv.Itoa(*round)
	}
	params := append(c.baseParams(), param{"id_partido", matchID}, param{"jornada", jornada})
	return buildURL(c.URLs.Match, params)
}

// CalendarFeedURL is the published .ics location.
func (c *Config) CalendarFeedURL() string {
	return strings.TrimRight(c.Site.BaseURL, "/") + "/partidos.ics"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
