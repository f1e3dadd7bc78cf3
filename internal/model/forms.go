package model

// Login is the value set of the simple form.
type Login struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Friend is one row of the profile friends list.
type Friend struct {
	Name string `json:"name"`
}

// Settings groups the profile flags.
type Settings struct {
	IsSubscribed bool `json:"isSubscribed"`
}

// Profile is the decoded value set of the complex form.
// ProfileURL and Age are nil when the user left them blank.
type Profile struct {
	FirstName  string   `json:"firstName"`
	Email      string   `json:"email"`
	ProfileURL *string  `json:"profileUrl,omitempty"`
	Age        *int     `json:"age"`
	Friends    []Friend `json:"friends"`
	Settings   Settings `json:"settings"`
}
