package seed

import (
	"hkexpatjobs/internal/auth"
	"hkexpatjobs/internal/database"
)

type demoUser struct {
	user     database.User
	password string
}

type demoCompany struct {
	owner   string
	company database.Company
}

type demoJob struct {
	poster  string
	company string
	daysAgo int
	job     database.Job
}

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

func demoUsers() []demoUser {
	return []demoUser{
		{
			password: "admin123",
			user: database.User{
				Username:    "admin",
				Role:        auth.RoleAdmin,
				Name:        "Admin User",
				Email:       "admin@hkexpatjobs.com",
				Nationality: "Hong Kong",
			},
		},
		{
			password: "recruiter123",
			user: database.User{
				Username:    "recruiter",
				Role:        auth.RoleRecruiter,
				Name:        "Sarah Wong",
				Email:       "recruiter@hkexpatjobs.com",
				Phone:       "+852 5555 1234",
				Nationality: "Hong Kong",
			},
		},
		{
			password: "jobseeker123",
			user: database.User{
				Username:          "jobseeker",
				Role:              auth.RoleApplicant,
				Name:              "John Smith",
				Email:             "john.smith@example.com",
				Phone:             "+1 234 567 8901",
				Nationality:       "United States",
				CurrentLocation:   "New York, USA",
				VisaStatus:        "Seeking sponsorship",
				YearsOfExperience: intPtr(5),
				Skills:            []string{"Project Management", "Marketing Strategy", "Digital Marketing", "Team Leadership"},
				Languages: []database.LanguageSkill{
					{Language: "English", Proficiency: "Native"},
					{Language: "Mandarin", Proficiency: "Basic"},
				},
				Education: []database.Education{{
					Degree:      "Bachelor of Business Administration",
					Institution: "New York University",
					Field:       "Marketing",
					StartDate:   "2015-09-01",
					EndDate:     "2019-05-30",
					Country:     "United States",
				}},
				WorkExperience: []database.WorkExperience{{
					Title:        "Marketing Manager",
					Company:      "ABC Corporation",
					Location:     "New York",
					StartDate:    "2019-06-15",
					EndDate:      "2023-04-30",
					Description:  "Led marketing campaigns for various product lines, managed a team of 5 marketing professionals.",
					IsInHongKong: boolPtr(false),
				}},
			},
		},
		{
			password: "jobseeker456",
			user: database.User{
				Username:          "maria",
				Role:              auth.RoleApplicant,
				Name:              "Maria Garcia",
				Email:             "maria.garcia@example.com",
				Phone:             "+34 612 345 678",
				Nationality:       "Spain",
				CurrentLocation:   "Barcelona, Spain",
				VisaStatus:        "Not applicable yet",
				YearsOfExperience: intPtr(3),
				Skills:            []string{"Web Development", "React", "Node.js", "MongoDB", "Express"},
				Languages: []database.LanguageSkill{
					{Language: "Spanish", Proficiency: "Native"},
					{Language: "English", Proficiency: "Professional"},
					{Language: "French", Proficiency: "Intermediate"},
				},
				Education: []database.Education{{
					Degree:      "Master of Computer Science",
					Institution: "University of Barcelona",
					Field:       "Software Engineering",
					StartDate:   "2019-09-01",
					EndDate:     "2021-06-30",
					Country:     "Spain",
				}},
				WorkExperience: []database.WorkExperience{{
					Title:        "Frontend Developer",
					Company:      "Tech Innovators SL",
					Location:     "Barcelona",
					StartDate:    "2021-07-15",
					Description:  "Developing responsive web applications using React and integrating with RESTful APIs.",
					IsInHongKong: boolPtr(false),
				}},
			},
		},
	}
}

// 每个招聘者只能有一家公司，第二家公司挂在管理员名下。
func demoCompanies() []demoCompany {
	return []demoCompany{
		{
			owner: "recruiter",
			company: database.Company{
				Name:                 "Hong Kong Tech Innovators",
				Description:          "A leading technology company specializing in innovative solutions for businesses in Asia.",
				Industry:             "it",
				Website:              "https://www.hktech.example.com",
				Size:                 "50-200 employees",
				Founded:              intPtr(2010),
				AddressStreet:        "123 Innovation Drive",
				AddressDistrict:      "Central",
				AddressCity:          "Hong Kong",
				AddressCountry:       "Hong Kong",
				AddressPostalCode:    "123456",
				ContactName:          "Sarah Wong",
				ContactEmail:         "recruiter@hkexpatjobs.com",
				ContactPhone:         "+852 5555 1234",
				ContactPosition:      "HR Manager",
				SocialLinkedIn:       "https://www.linkedin.com/company/hktechinnovators",
				SocialFacebook:       "https://www.facebook.com/hktechinnovators",
				Benefits:             []string{"Competitive salary packages", "Medical insurance", "Annual performance bonuses", "Professional development opportunities", "Flexible working hours"},
				Culture:              "We foster an inclusive, innovative culture where diverse perspectives are valued.",
				InternationalOffices: []string{"Singapore", "Tokyo", "Shanghai"},
				Verified:             true,
			},
		},
		{
			owner: "admin",
			company: database.Company{
				Name:                 "Global Finance HK",
				Description:          "A multinational financial institution providing banking and investment services across Asia.",
				Industry:             "finance",
				Website:              "https://www.globalfinancehk.example.com",
				Size:                 "500+ employees",
				Founded:              intPtr(2005),
				AddressStreet:        "888 Finance Street",
				AddressDistrict:      "Wan Chai",
				AddressCity:          "Hong Kong",
				AddressCountry:       "Hong Kong",
				AddressPostalCode:    "567890",
				ContactName:          "Sarah Wong",
				ContactEmail:         "recruiter@hkexpatjobs.com",
				ContactPhone:         "+852 5555 1234",
				ContactPosition:      "Talent Acquisition Manager",
				SocialLinkedIn:       "https://www.linkedin.com/company/globalfinancehk",
				SocialTwitter:        "https://www.twitter.com/globalfinancehk",
				Benefits:             []string{"Competitive remuneration package", "Annual bonus scheme", "Comprehensive health benefits", "Retirement plan", "Global mobility opportunities"},
				Culture:              "A professional, fast-paced environment with a strong emphasis on excellence and integrity.",
				InternationalOffices: []string{"New York", "London", "Sydney", "Singapore", "Shanghai"},
				Verified:             true,
			},
		},
	}
}

func languages(pairs ...string) []database.JobLanguage {
	out := make([]database.JobLanguage, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, database.JobLanguage{Language: pairs[i], Proficiency: pairs[i+1]})
	}
	return out
}

func demoJobs() []demoJob {
	return []demoJob{
		{
			poster: "recruiter", company: "Hong Kong Tech Innovators", daysAgo: 3,
			job: database.Job{
				Title:       "Senior Full Stack Developer",
				Location:    "Central, Hong Kong",
				District:    "Central",
				Type:        "full-time",
				Industry:    "it",
				Category:    "Software Development",
				Description: "We are looking for an experienced Full Stack Developer to join our innovative team in Hong Kong.",
				Responsibilities: database.TextList{
					"Design and develop high-quality applications using React.js and Node.js",
					"Collaborate with cross-functional teams to define, design, and ship new features",
					"Optimize applications for maximum performance and scalability",
				},
				Requirements: database.TextList{
					"Bachelor's degree in Computer Science or related field",
					"At least 5 years of experience in full-stack development",
					"Experience with React.js and Node.js",
				},
				SalaryMin:              intPtr(45000),
				SalaryMax:              intPtr(60000),
				Benefits:               database.TextList{"Competitive salary", "Medical insurance", "Performance bonuses", "Flexible working hours"},
				Languages:              languages("English", "Professional", "Cantonese", "Basic"),
				RequiredExperience:     intPtr(5),
				VisaSponsorshipOffered: true,
				SuitableForExpats:      true,
				FeaturedJob:            true,
			},
		},
		{
			poster: "recruiter", company: "Hong Kong Tech Innovators", daysAgo: 5,
			job: database.Job{
				Title:       "Marketing Manager",
				Location:    "Central, Hong Kong",
				District:    "Central",
				Type:        "full-time",
				Industry:    "it",
				Category:    "Marketing",
				Description: "We're seeking a talented Marketing Manager to lead our marketing initiatives in the APAC region.",
				Responsibilities: database.TextList{
					"Develop and implement comprehensive marketing strategies",
					"Manage digital marketing campaigns across various channels",
					"Work with sales team to generate leads and drive conversions",
				},
				Requirements: database.TextList{
					"Bachelor's degree in Marketing, Business Administration, or related field",
					"3-5 years of experience in marketing, preferably in the tech industry",
				},
				SalaryMin:          intPtr(35000),
				SalaryMax:          intPtr(45000),
				Benefits:           database.TextList{"Competitive salary", "Medical insurance", "Professional development budget"},
				Languages:          languages("English", "Professional", "Cantonese", "Intermediate"),
				RequiredExperience: intPtr(3),
				SuitableForExpats:  true,
			},
		},
		{
			poster: "admin", company: "Global Finance HK", daysAgo: 7,
			job: database.Job{
				Title:       "Financial Analyst",
				Location:    "Wan Chai, Hong Kong",
				District:    "Wan Chai",
				Type:        "full-time",
				Industry:    "finance",
				Category:    "Finance",
				Description: "Global Finance HK is seeking a detail-oriented Financial Analyst to join our expanding team in Hong Kong.",
				Responsibilities: database.TextList{
					"Analyze financial information to produce forecasts on business performance",
					"Prepare monthly, quarterly, and annual financial reports",
				},
				Requirements: database.TextList{
					"Bachelor's degree in Finance, Economics, Accounting, or related field",
					"Strong proficiency in Excel and financial modeling",
				},
				SalaryMin:              intPtr(30000),
				SalaryMax:              intPtr(40000),
				Benefits:               database.TextList{"Competitive salary package", "Annual bonus"},
				Languages:              languages("English", "Professional", "Mandarin", "Intermediate"),
				RequiredExperience:     intPtr(2),
				VisaSponsorshipOffered: true,
				SuitableForExpats:      true,
			},
		},
		{
			poster: "recruiter", company: "International Education Center", daysAgo: 10,
			job: database.Job{
				Title:                  "ESL Teacher",
				Location:               "Kowloon, Hong Kong",
				District:               "Kowloon",
				Type:                   "full-time",
				Industry:               "education",
				Category:               "Teaching",
				Description:            "International Education Center is looking for passionate ESL teachers to join our team in Hong Kong.",
				SalaryMin:              intPtr(25000),
				SalaryMax:              intPtr(30000),
				Languages:              languages("English", "Native"),
				RequiredExperience:     intPtr(0),
				VisaSponsorshipOffered: true,
				SuitableForExpats:      true,
			},
		},
		{
			poster: "recruiter", company: "Luxury Bay Hotel", daysAgo: 2,
			job: database.Job{
				Title:                  "Hotel Guest Relations Manager",
				Location:               "Tsim Sha Tsui, Hong Kong",
				District:               "Tsim Sha Tsui",
				Type:                   "full-time",
				Industry:               "hospitality",
				Category:               "Hotel Management",
				Description:            "Luxury Bay Hotel is seeking an experienced Guest Relations Manager for our 5-star property in Hong Kong.",
				SalaryMin:              intPtr(28000),
				SalaryMax:              intPtr(35000),
				Languages:              languages("English", "Professional", "Cantonese", "Basic", "Mandarin", "Intermediate"),
				RequiredExperience:     intPtr(3),
				VisaSponsorshipOffered: true,
				SuitableForExpats:      true,
			},
		},
	}
}
