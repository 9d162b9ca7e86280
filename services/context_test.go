package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NizanHulq/portfolio-web/models"
)

// fakeSource counts reads so tests can tell whether the cache hit storage
type fakeSource struct {
	reads       int
	failReads   bool
	experiences []models.Experience
	projects    []models.Project
	skills      []models.Skill
	fragments   []models.AIContextFragment
}

func (f *fakeSource) Experiences() ([]models.Experience, error) {
	f.reads++
	if f.failReads {
		return nil, errors.New("connection refused")
	}
	return f.experiences, nil
}

func (f *fakeSource) Projects() ([]models.Project, error) {
	if f.failReads {
		return nil, errors.New("connection refused")
	}
	return f.projects, nil
}

func (f *fakeSource) Skills() ([]models.Skill, error) {
	if f.failReads {
		return nil, errors.New("connection refused")
	}
	return f.skills, nil
}

func (f *fakeSource) ContextFragments() ([]models.AIContextFragment, error) {
	if f.failReads {
		return nil, errors.New("connection refused")
	}
	return f.fragments, nil
}

func testSource() *fakeSource {
	return &fakeSource{
		experiences: []models.Experience{
			{Position: "Backend Developer", Company: "Voltras", TimePeriod: "Dec 2024 - Present"},
			{Position: "Intern", Company: "StartupX", TimePeriod: "2023"},
			{Position: "Freelancer", Company: "Self", TimePeriod: "2022"},
			{Position: "Student Dev", Company: "Campus", TimePeriod: "2021"},
			{Position: "Hobbyist", Company: "Home", TimePeriod: "2020"},
		},
		projects: []models.Project{
			{Title: "Portfolio", Type: "Web App"},
			{Title: "Chain Explorer", Type: "Web3"},
		},
		skills: []models.Skill{
			{Name: "Java", Category: "backend"},
			{Name: "Spring Boot", Category: "backend"},
			{Name: "React.js", Category: "frontend"},
			{Name: "Figma"},
		},
		fragments: []models.AIContextFragment{
			{Category: models.ContextCategoryAbout, Key: "full_name", Value: "Nizan Dhiaulhaq"},
			{Category: models.ContextCategoryPersonality, Key: "tone", Value: "Friendly and helpful"},
			{Category: models.ContextCategoryBehavior, Key: "rule_1", Value: "Guide visitors to relevant sections"},
		},
	}
}

func TestPromptSections(t *testing.T) {
	cache := NewContextCache(testSource(), time.Minute)
	prompt := cache.Prompt()

	assert.Contains(t, prompt, "You are Nizan's Assistant")
	assert.Contains(t, prompt, "- Full Name: Nizan Dhiaulhaq")
	assert.Contains(t, prompt, "- Backend: Java, Spring Boot")
	assert.Contains(t, prompt, "- Frontend: React.js")
	// uncategorized skills fall into "general"
	assert.Contains(t, prompt, "- General: Figma")
	assert.Contains(t, prompt, "1. Backend Developer at Voltras (Dec 2024 - Present)")
	// only the first four experiences are listed
	assert.Contains(t, prompt, "4. Student Dev at Campus (2021)")
	assert.NotContains(t, prompt, "Hobbyist")
	assert.Contains(t, prompt, "2+ projects including:")
	assert.Contains(t, prompt, "- Portfolio: Web App")
	assert.Contains(t, prompt, "- Friendly and helpful")
	assert.Contains(t, prompt, "- Guide visitors to relevant sections")
	assert.NotContains(t, prompt, "{{")
}

func TestPromptUsesStoredTemplateAndReplacesAllOccurrences(t *testing.T) {
	source := testSource()
	source.fragments = append(source.fragments,
		models.AIContextFragment{
			Category: models.ContextCategoryInstructions,
			Key:      "system_prompt_template",
			Value:    "Hi, I am {{assistant_name}}. Call me {{assistant_name}}.",
		},
		models.AIContextFragment{
			Category: models.ContextCategoryInstructions,
			Key:      "assistant_name",
			Value:    "Botan",
		},
	)

	cache := NewContextCache(source, time.Minute)
	assert.Equal(t, "Hi, I am Botan. Call me Botan.", cache.Prompt())
}

func TestPromptCachedWithinTTL(t *testing.T) {
	source := testSource()
	cache := NewContextCache(source, 5*time.Minute)

	now := time.Unix(1_700_000_000, 0)
	cache.now = func() time.Time { return now }

	first := cache.Prompt()
	second := cache.Prompt()
	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.reads)

	// past the window, the collections are re-read
	now = now.Add(5*time.Minute + time.Second)
	cache.Prompt()
	assert.Equal(t, 2, source.reads)
}

func TestInvalidateForcesRebuild(t *testing.T) {
	source := testSource()
	cache := NewContextCache(source, time.Hour)

	cache.Prompt()
	require.Equal(t, 1, source.reads)

	cache.Invalidate()
	cache.Prompt()
	assert.Equal(t, 2, source.reads)
}

func TestPromptFallsBackOnReadFailure(t *testing.T) {
	source := testSource()
	source.failReads = true
	cache := NewContextCache(source, time.Minute)

	prompt := cache.Prompt()
	assert.Equal(t, fallbackPrompt, prompt)
	assert.True(t, strings.Contains(prompt, "Nizan's Assistant"))
}
