package mail

type OutreachEmailData struct {
	StoreName string
	Body      string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	Store    string
}
