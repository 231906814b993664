package services

// Services bundles every business service the HTTP layer depends on:
//   - AuthService: registration, login, password recovery and roles
//   - DSAService: topics, questions and per-user notes, stars and solves
//   - CompanyService: the placement calendar
//   - SessionService: scheduled sessions that disappear once started
//   - MarqueeService: the single active announcement banner
//   - ResumeService: resume analysis through an external analyzer
//   - ProfileService: public coding profiles through an external scraper
type Services struct {
	Auth    AuthService
	DSA     DSAService
	Company CompanyService
	Session SessionService
	Marquee MarqueeService
	Resume  ResumeService
	Profile ProfileService
}
