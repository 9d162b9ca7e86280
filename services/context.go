package services

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/NizanHulq/portfolio-web/models"
)

// ContentSource is what the prompt assembler needs from storage.
// database.Database satisfies it.
type ContentSource interface {
	Experiences() ([]models.Experience, error)
	Projects() ([]models.Project, error)
	Skills() ([]models.Skill, error)
	ContextFragments() ([]models.AIContextFragment, error)
}

// DefaultContextTTL is how long an assembled prompt is served before the
// collections are re-read.
const DefaultContextTTL = 5 * time.Minute

const (
	maxExperienceLines = 4
	maxProjectLines    = 5

	defaultAssistantName = "Nizan's Assistant"
)

// fallbackPrompt is served whenever the collections cannot be read, so the
// chat stays available through a storage outage.
const fallbackPrompt = `You are Nizan's AI assistant on his portfolio website. Your name is "Nizan's Assistant".

ABOUT NIZAN:
- Full Name: Nizan Dhiaulhaq
- Current Role: Backend Developer at PT Voltras International (Dec 2024 - Present)
- Location: Yogyakarta, Indonesia

SKILLS: Java, Spring Boot, PostgreSQL, Docker, Kubernetes, React.js, Next.js, Laravel

Be friendly, helpful, and guide visitors to relevant sections of the portfolio.`

const defaultTemplate = `You are {{assistant_name}} on Nizan's portfolio website.

ABOUT NIZAN:
{{about_section}}

SKILLS:
{{skills_section}}

EXPERIENCE:
{{experience_section}}

KEY PROJECTS:
{{projects_section}}

PERSONALITY:
{{personality_section}}

YOUR BEHAVIOR:
{{behavior_section}}`

// ContextCache owns the assembled system prompt. Prompt returns the cached
// string within the TTL and rebuilds it otherwise; Invalidate clears it so
// the next call re-reads storage (the admin dispatcher calls it after every
// write). Concurrent misses are serialized by the mutex; a rebuild is a few
// cheap reads, so that is fine.
type ContextCache struct {
	source ContentSource
	ttl    time.Duration
	logger zerolog.Logger
	now    func() time.Time

	mu      sync.Mutex
	cached  string
	builtAt time.Time
}

func NewContextCache(source ContentSource, ttl time.Duration) *ContextCache {
	return &ContextCache{
		source: source,
		ttl:    ttl,
		logger: log.With().Str("service", "contextCache").Logger(),
		now:    time.Now,
	}
}

// Prompt returns the current system prompt. It never fails: if assembly
// errors, the static fallback is returned (and cached for the window, so a
// storage outage does not turn into a per-request query storm).
func (c *ContextCache) Prompt() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != "" && c.now().Sub(c.builtAt) < c.ttl {
		return c.cached
	}

	prompt, err := assemblePrompt(c.source)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to assemble portfolio context, using fallback")
		prompt = fallbackPrompt
	}

	c.cached = prompt
	c.builtAt = c.now()
	return c.cached
}

// Invalidate clears the cached prompt regardless of its age
func (c *ContextCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = ""
	c.builtAt = time.Time{}
}

// assemblePrompt reads the four content collections in parallel and renders
// them into the system prompt template.
func assemblePrompt(source ContentSource) (string, error) {
	var (
		experiences []models.Experience
		projects    []models.Project
		skills      []models.Skill
		fragments   []models.AIContextFragment
	)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		experiences, err = source.Experiences()
		return err
	})
	g.Go(func() error {
		var err error
		projects, err = source.Projects()
		return err
	})
	g.Go(func() error {
		var err error
		skills, err = source.Skills()
		return err
	})
	g.Go(func() error {
		var err error
		fragments, err = source.ContextFragments()
		return err
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	grouped := groupFragments(fragments)
	instructions := grouped[models.ContextCategoryInstructions]

	template := defaultTemplate
	if custom := fragmentValue(instructions, "system_prompt_template"); custom != "" {
		template = custom
	}
	assistantName := fragmentValue(instructions, "assistant_name")
	if assistantName == "" {
		assistantName = defaultAssistantName
	}

	replacer := strings.NewReplacer(
		"{{assistant_name}}", assistantName,
		"{{about_section}}", aboutSection(grouped[models.ContextCategoryAbout]),
		"{{skills_section}}", skillsSection(skills),
		"{{experience_section}}", experienceSection(experiences),
		"{{projects_section}}", projectsSection(projects),
		"{{personality_section}}", fragmentLines(grouped[models.ContextCategoryPersonality]),
		"{{behavior_section}}", fragmentLines(grouped[models.ContextCategoryBehavior]),
	)
	return replacer.Replace(template), nil
}

// groupFragments nests fragments by category, keeping the key order the
// repository returned.
func groupFragments(fragments []models.AIContextFragment) map[string][]models.AIContextFragment {
	grouped := make(map[string][]models.AIContextFragment)
	for _, f := range fragments {
		grouped[f.Category] = append(grouped[f.Category], f)
	}
	return grouped
}

func fragmentValue(fragments []models.AIContextFragment, key string) string {
	for _, f := range fragments {
		if f.Key == key {
			return f.Value
		}
	}
	return ""
}

// aboutSection renders each about fragment as "- Key Label: value"
func aboutSection(fragments []models.AIContextFragment) string {
	lines := make([]string, 0, len(fragments))
	for _, f := range fragments {
		lines = append(lines, fmt.Sprintf("- %s: %s", keyLabel(f.Key), f.Value))
	}
	return strings.Join(lines, "\n")
}

// skillsSection groups skills by category (first-appearance order, which
// follows order_index) with one comma-joined line per category.
func skillsSection(skills []models.Skill) string {
	byCategory := make(map[string][]string)
	var categories []string
	for _, skill := range skills {
		category := skill.Category
		if category == "" {
			category = "general"
		}
		if _, seen := byCategory[category]; !seen {
			categories = append(categories, category)
		}
		byCategory[category] = append(byCategory[category], skill.Name)
	}

	lines := make([]string, 0, len(categories))
	for _, category := range categories {
		lines = append(lines, fmt.Sprintf("- %s: %s", titleCase(category), strings.Join(byCategory[category], ", ")))
	}
	return strings.Join(lines, "\n")
}

func experienceSection(experiences []models.Experience) string {
	if len(experiences) > maxExperienceLines {
		experiences = experiences[:maxExperienceLines]
	}
	lines := make([]string, 0, len(experiences))
	for i, exp := range experiences {
		lines = append(lines, fmt.Sprintf("%d. %s at %s (%s)", i+1, exp.Position, exp.Company, exp.TimePeriod))
	}
	return strings.Join(lines, "\n")
}

func projectsSection(projects []models.Project) string {
	listed := projects
	if len(listed) > maxProjectLines {
		listed = listed[:maxProjectLines]
	}
	lines := make([]string, 0, len(listed)+1)
	lines = append(lines, fmt.Sprintf("%d+ projects including:", len(projects)))
	for _, p := range listed {
		lines = append(lines, fmt.Sprintf("- %s: %s", p.Title, p.Type))
	}
	return strings.Join(lines, "\n")
}

// fragmentLines renders personality/behavior fragments one per line
func fragmentLines(fragments []models.AIContextFragment) string {
	lines := make([]string, 0, len(fragments))
	for _, f := range fragments {
		lines = append(lines, "- "+f.Value)
	}
	return strings.Join(lines, "\n")
}

// keyLabel turns a fragment key like "current_role" into "Current Role"
func keyLabel(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		words[i] = titleCase(w)
	}
	return strings.Join(words, " ")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
