package models

// DefaultSeed returns the built-in quiz sets used to populate an empty store
// on first access. The content mirrors the certification tracks the service
// ships with; admins replace or extend it through the import endpoints.
func DefaultSeed() Snapshot {
	return Snapshot{
		"mcpa-level-1": {
			ID:            "mcpa-level-1",
			Title:         "MCPA - Level 1 (Platform Architect)",
			Description:   "MuleSoft Certified Platform Architect - Level 1 practice set",
			Category:      "MuleSoft",
			Difficulty:    DifficultyMedium,
			EstimatedTime: 600,
			Questions: []Question{
				{
					ID:     "mcpa-1",
					Prompt: "What is the primary purpose of an integration platform such as Anypoint Platform?",
					Options: []string{
						"Building mobile user interfaces",
						"Connecting applications, data, and devices through APIs",
						"Managing relational database schemas",
						"Rendering server-side web pages",
					},
					Kind:          AnswerSingle,
					CorrectAnswer: SingleAnswer(1),
					Justification: "An integration platform exists to connect applications, data, and devices across on-premises and cloud environments. UI construction and schema management are jobs for other tooling.",
					ReferenceLinks: []ReferenceLink{
						{Title: "Anypoint Platform overview", URL: "https://docs.mulesoft.com/general/"},
					},
					Difficulty: DifficultyEasy,
					Category:   "Platform Overview",
					Tags:       []string{"platform", "integration"},
					Points:     10,
					Hints:      []string{"Think about what an integration platform is for."},
				},
				{
					ID:     "mcpa-2",
					Prompt: "Which of the following are layers of API-led connectivity? (Select all that apply)",
					Options: []string{
						"System APIs",
						"Process APIs",
						"Experience APIs",
						"Database APIs",
					},
					Kind:          AnswerMultiple,
					CorrectAnswer: MultipleAnswer(0, 1, 2),
					Justification: "API-led connectivity defines three layers: System APIs unlock data from backend systems, Process APIs orchestrate it, and Experience APIs shape it for specific consumers. Database APIs is not one of the layers.",
					ReferenceLinks: []ReferenceLink{
						{Title: "What is API-led connectivity", URL: "https://www.mulesoft.com/resources/api/what-is-api-led-connectivity"},
					},
					Difficulty: DifficultyMedium,
					Category:   "API Design",
					Tags:       []string{"api-led", "architecture"},
					Points:     15,
				},
				{
					ID:     "mcpa-3",
					Prompt: "Which language does MuleSoft provide for transforming data between formats?",
					Options: []string{
						"DataWeave",
						"XSLT",
						"GraphQL",
						"Apex",
					},
					Kind:          AnswerSingle,
					CorrectAnswer: SingleAnswer(0),
					Justification: "DataWeave is the expression language built into the Mule runtime for transforming payloads between JSON, XML, CSV and other formats.",
					Difficulty:    DifficultyEasy,
					Category:      "Data Transformation",
					Points:        10,
				},
			},
		},
		"admin-objectives-1-2": {
			ID:            "admin-objectives-1-2",
			Title:         "Administrator - Configuration and Setup (Objectives 1-2)",
			Description:   "Salesforce Administrator certification: org configuration and user setup",
			Category:      "Salesforce",
			Difficulty:    DifficultyMedium,
			EstimatedTime: 480,
			Questions: []Question{
				{
					ID:     "admin-1",
					Prompt: "Where does an administrator control the default locale and time zone for an organization?",
					Options: []string{
						"Company Information settings",
						"User profile of the administrator",
						"Sharing Settings",
						"Session Settings",
					},
					Kind:          AnswerSingle,
					CorrectAnswer: SingleAnswer(0),
					Justification: "Company Information holds the org-wide defaults for locale, language and time zone. Individual users may override them on their own user record.",
					Difficulty:    DifficultyEasy,
					Category:      "Organization Setup",
					Points:        10,
				},
				{
					ID:     "admin-2",
					Prompt: "Which items are controlled by a user's profile? (Select all that apply)",
					Options: []string{
						"Object permissions",
						"Login hours",
						"Record-level sharing rules",
						"Page layout assignment",
					},
					Kind:          AnswerMultiple,
					CorrectAnswer: MultipleAnswer(0, 1, 3),
					Justification: "Profiles govern object permissions, login hours and page layout assignment. Record-level access is the job of the sharing model, not the profile.",
					Difficulty:    DifficultyMedium,
					Category:      "User Setup",
					Points:        15,
				},
			},
		},
	}
}
