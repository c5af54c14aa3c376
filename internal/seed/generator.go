package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/talentsync/talentsync/internal/domain/model"
)

// Demo data tables for generated listings.
var (
	categories = []string{"web-development", "mobile-development", "design", "writing", "marketing", "data-science"}

	categorySkills = map[string][]string{
		"web-development":    {"React", "JavaScript", "CSS", "Node.js", "MongoDB", "TypeScript", "WordPress", "PHP"},
		"mobile-development": {"Swift", "Kotlin", "React Native", "Flutter", "Mobile Design"},
		"design":             {"UI/UX Design", "Figma", "Adobe XD", "Mobile Design", "Branding"},
		"writing":            {"Content Writing", "SEO", "Research", "Copywriting", "Technical Writing"},
		"marketing":          {"Social Media Marketing", "Facebook Ads", "Instagram", "Content Strategy", "PPC"},
		"data-science":       {"Python", "Data Analysis", "Pandas", "Matplotlib", "Statistics", "Machine Learning"},
	}

	categoryTitles = map[string][]string{
		"web-development":    {"Full Stack Developer", "Frontend Developer", "Backend Developer", "React Developer"},
		"mobile-development": {"Mobile App Developer", "iOS Developer", "Android Developer", "Flutter Developer"},
		"design":             {"UI/UX Designer", "Graphic Designer", "Brand Designer", "Product Designer"},
		"writing":            {"Content Writer", "Copywriter", "Technical Writer", "SEO Writer"},
		"marketing":          {"Digital Marketer", "SEO Specialist", "Social Media Manager", "PPC Expert"},
		"data-science":       {"Data Scientist", "Data Analyst", "ML Engineer", "Business Analyst"},
	}

	locations = []string{
		"Remote", "New York, USA", "London, UK", "Toronto, Canada", "Berlin, Germany",
		"San Francisco, USA", "Paris, France", "Sydney, Australia", "Tokyo, Japan",
		"Barcelona, Spain", "Amsterdam, Netherlands", "Singapore", "Mumbai, India",
	}

	names = []string{
		"Sarah Johnson", "Michael Chen", "Emma Wilson", "David Kim", "Lisa Anderson",
		"James Rodriguez", "Anna Kowalski", "Tom Mitchell", "Maya Patel", "Alex Turner",
	}

	bios = []string{
		"Passionate developer with expertise in modern web technologies. I love creating scalable applications that solve real-world problems.",
		"Creative designer focused on user experience and visual storytelling. I bring ideas to life through thoughtful design.",
		"Results-driven marketer with a track record of growing businesses through digital strategies and data-driven campaigns.",
		"Experienced writer who crafts compelling content that engages audiences and drives conversions.",
		"Data enthusiast who transforms complex datasets into actionable insights for business growth.",
	}

	experienceLevels = []string{"entry", "intermediate", "expert"}
	durations        = []string{"short", "medium", "long"}
)

// generator produces deterministic demo records from a seeded source.
type generator struct {
	rng *rand.Rand
	now time.Time
}

func newGenerator(seed int64) *generator {
	return &generator{
		rng: rand.New(rand.NewSource(seed)),
		now: time.Now(),
	}
}

func (g *generator) pick(values []string) string {
	return values[g.rng.Intn(len(values))]
}

func (g *generator) pickSkills(category string, min, max int) []string {
	pool := append([]string(nil), categorySkills[category]...)
	g.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	n := min + g.rng.Intn(max-min+1)
	if n > len(pool) {
		n = len(pool)
	}
	return pool[:n]
}

func (g *generator) job(i int) model.RawJob {
	category := g.pick(categories)
	hourly := g.rng.Float64() < 0.3

	raw := model.RawJob{
		ID:          uuid.NewString(),
		Title:       fmt.Sprintf("%s Needed for Project %d", g.pick(categoryTitles[category]), i+1),
		Description: g.pick(bios),
		Category:    category,
		Location:    g.pick(locations),
		Skills:      g.pickSkills(category, 3, 5),
		Experience:  g.pick(experienceLevels),
		Duration:    g.pick(durations),
		PostedDate:  g.now.Add(-time.Duration(g.rng.Intn(60*24)) * time.Hour).Format(time.RFC3339),
		ClientID:    fmt.Sprintf("demo-client-%d", g.rng.Intn(10)+1),
	}

	proposals := g.rng.Intn(25)
	raw.Proposals = &proposals

	if hourly {
		raw.Budget = &model.RawBudget{
			Type: "hourly",
			Min:  float64(g.rng.Intn(40) + 20),
			Max:  float64(g.rng.Intn(60) + 60),
		}
	} else {
		raw.Budget = &model.RawBudget{
			Type: "fixed",
			Min:  float64(g.rng.Intn(2000) + 500),
			Max:  float64(g.rng.Intn(4000) + 2500),
		}
	}
	return raw
}

func (g *generator) freelancer(i int) model.RawFreelancer {
	category := g.pick(categories)
	rating := float64(g.rng.Intn(16)+35) / 10
	rate := float64(g.rng.Intn(150) + 25)
	completed := g.rng.Intn(150) + 5

	availability := "available"
	if g.rng.Float64() < 0.3 {
		availability = "busy"
	}

	return model.RawFreelancer{
		ID:            uuid.NewString(),
		Name:          g.pick(names),
		Title:         g.pick(categoryTitles[category]),
		Bio:           g.pick(bios),
		Category:      category,
		Skills:        g.pickSkills(category, 4, 8),
		HourlyRate:    &rate,
		Rating:        &rating,
		Experience:    g.pick(experienceLevels),
		Availability:  availability,
		Location:      g.pick(locations),
		JoinedDate:    g.now.Add(-time.Duration(g.rng.Intn(365*24)) * time.Hour).Format(time.RFC3339),
		CompletedJobs: &completed,
	}
}

func (g *generator) message(users []string) model.RawMessage {
	a := g.rng.Intn(len(users))
	b := g.rng.Intn(len(users) - 1)
	if b >= a {
		b++
	}
	return model.RawMessage{
		SenderID:   users[a],
		ReceiverID: users[b],
		Content:    g.pick(bios),
		Timestamp:  g.now.Add(-time.Duration(g.rng.Intn(72)) * time.Hour).Format(time.RFC3339),
	}
}
