package workout

// defaultWorkouts is the built-in suggestion set served when no external
// catalog source is configured.
var defaultWorkouts = []Workout{
	{
		ID:               "super-soldier-sprint",
		Name:             "Super Soldier Sprint",
		Description:      "High-intensity interval training inspired by Captain America",
		ActivityType:     "Running",
		Difficulty:       "Hard",
		DurationMin:      45,
		CaloriesEstimate: 500,
	},
	{
		ID:               "asgardian-strength-training",
		Name:             "Asgardian Strength Training",
		Description:      "Build godlike strength with Thor's hammer workout",
		ActivityType:     "Weightlifting",
		Difficulty:       "Hard",
		DurationMin:      60,
		CaloriesEstimate: 600,
	},
	{
		ID:               "stark-tech-cardio",
		Name:             "Stark Tech Cardio",
		Description:      "Efficient cardio workout designed by Tony Stark",
		ActivityType:     "Cycling",
		Difficulty:       "Medium",
		DurationMin:      40,
		CaloriesEstimate: 450,
	},
	{
		ID:               "widows-flexibility-flow",
		Name:             "Widow's Flexibility Flow",
		Description:      "Enhance flexibility and balance like Black Widow",
		ActivityType:     "Yoga",
		Difficulty:       "Medium",
		DurationMin:      50,
		CaloriesEstimate: 250,
	},
	{
		ID:               "web-slinger-agility",
		Name:             "Web-Slinger Agility",
		Description:      "Spider-Man inspired agility and endurance training",
		ActivityType:     "Boxing",
		Difficulty:       "Medium",
		DurationMin:      45,
		CaloriesEstimate: 500,
	},
	{
		ID:               "speed-force-intervals",
		Name:             "Speed Force Intervals",
		Description:      "The Flash's lightning-fast interval training",
		ActivityType:     "Running",
		Difficulty:       "Hard",
		DurationMin:      30,
		CaloriesEstimate: 550,
	},
	{
		ID:               "atlantean-aqua-workout",
		Name:             "Atlantean Aqua Workout",
		Description:      "Aquaman's underwater-inspired swimming routine",
		ActivityType:     "Swimming",
		Difficulty:       "Medium",
		DurationMin:      50,
		CaloriesEstimate: 500,
	},
	{
		ID:               "green-lantern-willpower-session",
		Name:             "Green Lantern Willpower Session",
		Description:      "Mental and physical endurance training",
		ActivityType:     "Yoga",
		Difficulty:       "Easy",
		DurationMin:      40,
		CaloriesEstimate: 200,
	},
	{
		ID:               "beginner-hero-training",
		Name:             "Beginner Hero Training",
		Description:      "Perfect for starting your superhero fitness journey",
		ActivityType:     "Running",
		Difficulty:       "Easy",
		DurationMin:      25,
		CaloriesEstimate: 300,
	},
}
