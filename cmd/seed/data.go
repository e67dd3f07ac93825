package main

import "learning-service/internal/models"

type seedQuestion struct {
	text        string
	category    models.Category
	difficulty  int
	options     []string
	correct     int // 0-based
	explanation string
}

type seedLevel struct {
	number         int
	name           string
	description    string
	requiredPoints int
	questions      []seedQuestion
}

type seedCourse struct {
	name        string
	description string
	level       models.CourseLevel
	levels      []seedLevel
}

// requiredCorrectAnswers gates every level after the first.
const requiredCorrectAnswers = 5

var defaultCourses = []seedCourse{
	{
		name:        "General English",
		description: "Learn everyday English for general communication",
		level:       models.CourseBeginner,
		levels: []seedLevel{
			{
				number:      1,
				name:        "Basic Vocabulary",
				description: "Learn basic everyday words",
				questions: []seedQuestion{
					{
						text:        "What do you call the place where you sleep?",
						category:    models.CategoryVocabulary,
						difficulty:  10,
						options:     []string{"Bedroom", "Kitchen", "Bathroom", "Living room"},
						correct:     0,
						explanation: "A bedroom is the room in a house where people sleep.",
					},
					{
						text:        `Which word means "the first meal of the day"?`,
						category:    models.CategoryVocabulary,
						difficulty:  15,
						options:     []string{"Lunch", "Dinner", "Breakfast", "Snack"},
						correct:     2,
						explanation: "Breakfast is the first meal of the day, typically eaten in the morning.",
					},
					{
						text:        "She ____ to the store yesterday.",
						category:    models.CategoryGrammar,
						difficulty:  20,
						options:     []string{"go", "goes", "went", "going"},
						correct:     2,
						explanation: `For past actions, we use the past tense form "went".`,
					},
				},
			},
			{
				number:         2,
				name:           "Simple Grammar",
				description:    "Basic grammar constructions",
				requiredPoints: 1000,
				questions: []seedQuestion{
					{
						text:        "I ____ studying English for two years.",
						category:    models.CategoryGrammar,
						difficulty:  30,
						options:     []string{"am", "have been", "was", "were"},
						correct:     1,
						explanation: `We use "have been" with the present perfect continuous to describe an action that started in the past and continues to the present.`,
					},
					{
						text:        "If it ____ tomorrow, we will cancel the picnic.",
						category:    models.CategoryGrammar,
						difficulty:  35,
						options:     []string{"rains", "will rain", "is raining", "rained"},
						correct:     0,
						explanation: `In first conditional sentences, we use the present simple tense after "if" and the future tense in the main clause.`,
					},
				},
			},
			{
				number:         3,
				name:           "Conversations",
				description:    "Simple everyday conversations",
				requiredPoints: 2000,
			},
		},
	},
	{
		name:        "Business English",
		description: "English for professional and workplace communication",
		level:       models.CourseIntermediate,
		levels: []seedLevel{
			{
				number:      1,
				name:        "Office Vocabulary",
				description: "Learn common office and business terms",
				questions: []seedQuestion{
					{
						text:        `What is a "deadline"?`,
						category:    models.CategoryVocabulary,
						difficulty:  20,
						options:     []string{"A new product", "A time by which something must be completed", "A type of business meeting", "An office supply"},
						correct:     1,
						explanation: "A deadline is the time by which a task must be completed.",
					},
					{
						text:        "Which phrase is best for beginning a formal email?",
						category:    models.CategoryVocabulary,
						difficulty:  25,
						options:     []string{"Hey there,", "What's up?", "Dear Sir/Madam,", "Yo!"},
						correct:     2,
						explanation: `"Dear Sir/Madam" is a formal salutation used when you don't know the recipient's name.`,
					},
				},
			},
			{
				number:         2,
				name:           "Email Writing",
				description:    "Professional email communication",
				requiredPoints: 1000,
			},
		},
	},
	{
		name:        "Kids Program",
		description: "Fun and engaging English lessons for children",
		level:       models.CourseBeginner,
		levels: []seedLevel{
			{
				number:      1,
				name:        "Animals and Colors",
				description: "Learn animal names and colors",
				questions: []seedQuestion{
					{
						text:        "What color is a banana?",
						category:    models.CategoryVocabulary,
						difficulty:  5,
						options:     []string{"Red", "Blue", "Yellow", "Green"},
						correct:     2,
						explanation: "Bananas are yellow when ripe!",
					},
					{
						text:        `Which animal says "meow"?`,
						category:    models.CategoryVocabulary,
						difficulty:  5,
						options:     []string{"Dog", "Cat", "Fish", "Bird"},
						correct:     1,
						explanation: `Cats make the sound "meow"!`,
					},
				},
			},
			{
				number:         2,
				name:           "Numbers and Counting",
				description:    "Learn to count and use numbers",
				requiredPoints: 1000,
			},
		},
	},
}
