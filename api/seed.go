package api

import "github.com/seobright/careers/internal/store"

// seedJobs are the demo postings inserted by POST /careers/seed.
var seedJobs = []store.Document{
	{
		"title":           "Senior SEO Strategist",
		"department":      "Organic",
		"location":        "Brighton, UK",
		"employment_type": "Full-time",
		"description":     "Lead strategy across enterprise SEO accounts, collaborating with content, UX, and dev.",
		"responsibilities": []any{
			"Own SEO strategy for key clients",
			"Guide technical audits and roadmaps",
			"Mentor junior team members",
		},
		"requirements": []any{
			"5+ years SEO experience",
			"Strong technical SEO skills",
			"Comfortable with stakeholder communication",
		},
		"salary_range": "£45k–£60k DOE",
		"remote":       true,
	},
	{
		"title":           "Performance Media Manager",
		"department":      "Media",
		"location":        "Hybrid / Brighton",
		"employment_type": "Full-time",
		"description":     "Plan, launch and optimize paid search & social campaigns focused on measurable growth.",
		"responsibilities": []any{
			"Own PPC & Paid Social across channels",
			"Implement testing frameworks",
			"Report insights and iterate",
		},
		"requirements": []any{
			"4+ years in performance media",
			"Platform certifications",
			"Strong analytical mindset",
		},
		"salary_range": "£40k–£55k DOE",
		"remote":       true,
	},
	{
		"title":           "Product Designer (UX/UI)",
		"department":      "Creative",
		"location":        "Remote (UK)",
		"employment_type": "Contract",
		"description":     "Design simple, beautiful product experiences across web with accessibility in mind.",
		"responsibilities": []any{
			"Translate strategy into UX flows",
			"Create UI systems and prototypes",
			"Collaborate with dev for implementation",
		},
		"requirements": []any{
			"Strong portfolio of shipped work",
			"Accessibility knowledge",
			"Proficiency in Figma",
		},
		"salary_range": "Competitive",
		"remote":       true,
	},
}
