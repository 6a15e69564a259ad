package cli

import (
	"lms-grading-service/internal/config"
	"lms-grading-service/internal/domain"
)

// sampleCatalog is served when no catalog file or database is configured.
func sampleCatalog() config.Catalog {
	opts := func(ids ...string) []domain.Option {
		out := make([]domain.Option, 0, len(ids)/2)
		for i := 0; i+1 < len(ids); i += 2 {
			out = append(out, domain.Option{ID: ids[i], Text: ids[i+1]})
		}
		return out
	}

	return config.Catalog{
		Courses: []domain.Course{
			{ID: "course-1", Title: "Introduction to Web Development", Instructor: "Dr. Sarah Chen", Level: "Beginner"},
			{ID: "course-2", Title: "Advanced React Development", Instructor: "Alex Johnson", Level: "Advanced"},
		},
		Quizzes: []domain.Quiz{
			{
				ID:           "quiz-1",
				CourseID:     "course-1",
				Title:        "HTML Fundamentals Quiz",
				TimeLimit:    15,
				PassingScore: 70,
				Questions: []domain.Question{
					{ID: "q-1", Text: "What does HTML stand for?", Points: 10, CorrectOptionID: "opt-1",
						Options: opts("opt-1", "Hyper Text Markup Language", "opt-2", "High Tech Modern Language", "opt-3", "Hyper Transfer Markup Language", "opt-4", "Home Tool Markup Language")},
					{ID: "q-2", Text: "Which tag is used for the largest heading?", Points: 10, CorrectOptionID: "opt-7",
						Options: opts("opt-5", "<heading>", "opt-6", "<h6>", "opt-7", "<h1>", "opt-8", "<head>")},
					{ID: "q-3", Text: "Which attribute specifies the URL for a link?", Points: 10, CorrectOptionID: "opt-10",
						Options: opts("opt-9", "src", "opt-10", "href", "opt-11", "link", "opt-12", "url")},
					{ID: "q-4", Text: "Which tag is used to create an unordered list?", Points: 10, CorrectOptionID: "opt-15",
						Options: opts("opt-13", "<ol>", "opt-14", "<list>", "opt-15", "<ul>", "opt-16", "<li>")},
					{ID: "q-5", Text: "What is the correct HTML element for inserting a line break?", Points: 10, CorrectOptionID: "opt-19",
						Options: opts("opt-17", "<break>", "opt-18", "<lb>", "opt-19", "<br>", "opt-20", "<newline>")},
				},
			},
			{
				ID:           "quiz-2",
				CourseID:     "course-2",
				Title:        "React Hooks Assessment",
				TimeLimit:    20,
				PassingScore: 75,
				Questions: []domain.Question{
					{ID: "q-6", Text: "Which hook is used for side effects in React?", Points: 10, CorrectOptionID: "opt-22",
						Options: opts("opt-21", "useState", "opt-22", "useEffect", "opt-23", "useContext", "opt-24", "useReducer")},
					{ID: "q-7", Text: "What does useState return?", Points: 10, CorrectOptionID: "opt-26",
						Options: opts("opt-25", "A single value", "opt-26", "An array with state and setter function", "opt-27", "An object with state properties", "opt-28", "A promise")},
				},
			},
		},
		Users: []domain.User{
			{ID: "user-1", Name: "John Student", Email: "student@example.com", Role: domain.RoleStudent},
			{ID: "user-2", Name: "Admin User", Email: "admin@example.com", Role: domain.RoleAdmin},
		},
	}
}
