// Package content is the static copy shown on the portfolio page.
package content

type Experience struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Location     string   `json:"location"`
	Period       string   `json:"period"`
	BulletPoints []string `json:"bulletPoints"`
	Current      bool     `json:"current"`
}

type Project struct {
	Name        string   `json:"name"`
	Subtitle    string   `json:"subtitle"`
	Description string   `json:"description"`
	Tech        []string `json:"tech"`
	Status      string   `json:"status"`
	DemoURL     string   `json:"demoUrl,omitempty"`
	GithubURL   string   `json:"githubUrl,omitempty"`
}

type Skill struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

type SkillCategory struct {
	Title  string  `json:"title"`
	Skills []Skill `json:"skills"`
}

// Accent is a theme color name used by the templates.
type Accent string

const (
	AccentCyan    Accent = "cyan"
	AccentDanger  Accent = "danger"
	AccentPhantom Accent = "phantom"
	AccentGold    Accent = "gold"
)

type Achievement struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	Year        string `json:"year"`
	Accent      Accent `json:"accent"`
}

type Channel struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Href  string `json:"href,omitempty"`
}

// Profile is everything the page renders.
type Profile struct {
	Name         string          `json:"name"`
	Initials     string          `json:"initials"`
	Titles       []string        `json:"titles"`
	AboutMe      string          `json:"aboutMe"`
	Experiences  []Experience    `json:"experiences"`
	Projects     []Project       `json:"projects"`
	Skills       []SkillCategory `json:"skills"`
	OtherSkills  []string        `json:"otherSkills"`
	Achievements []Achievement   `json:"achievements"`
	Contact      []Channel       `json:"contact"`
}

var (
	AboutMe = `Full stack developer from Kathmandu who likes building things that feel alive on screen.
	Most of my work starts as a small experiment, a dashboard, a storefront or a side project, and grows
	into something people actually use. I care about clean interfaces, fast feedback and code the next
	person can read.`

	HeroTitles = []string{"Full Stack Developer", "Ghost in the Machine", "Code Phantom"}
)

// Default returns the profile the site ships with.
func Default() Profile {
	return Profile{
		Name:     "Chetan Koirala",
		Initials: "CK",
		Titles:   HeroTitles,
		AboutMe:  AboutMe,
		Experiences: []Experience{
			{
				Title:    "Frontend Developer",
				Company:  "GreenCart Project (Freelance/College Initiative)",
				Location: "Kathmandu, Nepal",
				Period:   "Apr 2024 – Present",
				BulletPoints: []string{
					"Developed a modern, responsive e-commerce frontend using React and Tailwind",
					"Collaborated with team to integrate Firebase and eSewa payment gateway",
					"Worked on dynamic user/seller dashboards and cart/address management using React Router",
				},
				Current: true,
			},
			{
				Title:    "Tech Intern",
				Company:  "Research And Innovation Unit (RIU)",
				Location: "Kathmandu, Nepal",
				Period:   "Jun 2022 – Aug 2022",
				BulletPoints: []string{
					"Participated in robotic system prototyping for basic automation tasks",
					"Assisted in system testing and quality assurance",
					"Gained hands-on experience in teamwork and industry-level problem solving",
				},
			},
		},
		Projects: []Project{
			{
				Name:     "GreenCart",
				Subtitle: "E-commerce Store",
				Description: `A full-stack e-commerce platform for Nepali local products with integrated payment
				gateways (eSewa/Khalti). Features dynamic dashboards, cart management, and seamless checkout experience.`,
				Tech:   []string{"React", "Node.js", "MongoDB", "Express", "Firebase", "Vite", "Tailwind"},
				Status: "OPERATIONAL",
			},
			{
				Name:     "News Portal",
				Subtitle: "Multi-Role News System",
				Description: `Complete news portal with admin, reporter, and user roles for content management
				and publishing. Features article editor, live feed, and comprehensive user management.`,
				Tech:   []string{"HTML", "CSS", "JavaScript", "PHP", "MySQL"},
				Status: "DEPLOYED",
			},
		},
		Skills: []SkillCategory{
			{Title: "LANGUAGES", Skills: []Skill{{"Python", 85}, {"JavaScript", 90}, {"HTML/CSS", 95}}},
			{Title: "FRAMEWORKS", Skills: []Skill{{"React", 90}, {"Node.js", 85}, {"PHP", 75}}},
			{Title: "DATABASES", Skills: []Skill{{"MongoDB", 85}, {"MySQL", 80}}},
			{Title: "TOOLS", Skills: []Skill{{"Git", 90}, {"PostMan", 85}, {"Firebase", 75}}},
		},
		OtherSkills: []string{
			"Tailwind CSS", "Express", "REST APIs", "Responsive Design", "UI/UX", "Vite",
			"React Router", "Payment Gateways", "Team Leadership", "Problem Solving",
		},
		Achievements: []Achievement{
			{
				Title:       "Best Academic Project",
				Subtitle:    "BCA 4th Semester",
				Description: "Recognized for excellence in software development and project execution during the 4th semester of BCA.",
				Year:        "2023",
				Accent:      AccentGold,
			},
			{
				Title:       "Startup Initiative Leader",
				Subtitle:    "GreenCart Project",
				Description: "Led GreenCart project under student startup initiative, demonstrating leadership and entrepreneurial skills.",
				Year:        "2024",
				Accent:      AccentCyan,
			},
			{
				Title:       "Guest Speaker",
				Subtitle:    "Tech Meetup",
				Description: `Delivered guest session on "Building Modern UIs with React" to college tech community.`,
				Year:        "2025",
				Accent:      AccentPhantom,
			},
			{
				Title:       "Academic Excellence",
				Subtitle:    "Software Engineering & Web Programming",
				Description: "Scored A+ in practical labs demonstrating strong technical proficiency and dedication.",
				Year:        "2023",
				Accent:      AccentDanger,
			},
		},
		Contact: []Channel{
			{Label: "SIGNAL", Value: "+977-9849756660", Href: "tel:+9779849756660"},
			{Label: "ETHER", Value: "koiralachetan16@gmail.com", Href: "mailto:koiralachetan16@gmail.com"},
			{Label: "NETWORK", Value: "linkedin.com/np/ChetanKoirala", Href: "https://linkedin.com/np/ChetanKoirala"},
			{Label: "REPOSITORY", Value: "github.com/chetan079bca005-code", Href: "https://github.com/chetan079bca005-code"},
			{Label: "WHATSAPP", Value: "+977 9849756660", Href: "https://wa.me/9779849756660"},
			{Label: "COORDINATES", Value: "Kathmandu, Nepal"},
		},
	}
}
