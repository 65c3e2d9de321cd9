package cfg

type Cfg struct {
	// Database configuration
	DBPath string

	// Application configuration
	Port          string
	BaseUrl       string
	SiteName      string
	APIAccessKey  string
	TemplatesFile string

	// Mail transport configuration
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPDryRun   bool

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}
