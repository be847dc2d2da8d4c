package context

type RouterType string

const (
	Home            RouterType = "Home"
	LoginPage       RouterType = "LoginPage"
	Login           RouterType = "Login"
	RegisterPage    RouterType = "RegisterPage"
	Register        RouterType = "Register"
	Game            RouterType = "Game"
	ScoreSubmission RouterType = "ScoreSubmission"
	Leaderboard     RouterType = "Leaderboard"
	Logout          RouterType = "Logout"
	ForgotPassword  RouterType = "ForgotPassword"
)

type FilterType string

const (
	LogFilter                FilterType = "LogFilter"
	SessionFilter            FilterType = "SessionFilter"
	UserAuthenticationFilter FilterType = "UserAuthenticationFilter"
	CsrfFilter               FilterType = "CsrfFilter"
)

type CacheAdapterType string

const (
	GoCache CacheAdapterType = "GoCache"
	Redis   CacheAdapterType = "Redis"
)

type CacheAdapter struct {
	Identifier             string
	Type                   CacheAdapterType
	ExpirationTimeHours    int    `mapstructure:"evict-time-hours"`
	EvictScheduleTimeHours int    `mapstructure:"evict-schedule-time-hours"`
	RedisAddr              string `mapstructure:"redis-addr"`
	RedisPassword          string `mapstructure:"redis-password"`
	RedisDb                int    `mapstructure:"redis-db"`
}

type Filter struct {
	Type        FilterType
	Name        string
	Template    string
	LoginUrl    string   `mapstructure:"login-url"`
	HeaderName  string   `mapstructure:"header-name"`
	SafeMethods []string `mapstructure:"safe-methods"`
}

type Router struct {
	Type        RouterType
	Pattern     string
	Filters     []Filter
	RedirectUrl string `mapstructure:"redirect-url"`
	LoginUrl    string `mapstructure:"login-url"`
}

type Backend struct {
	Url            string
	TimeoutSeconds int `mapstructure:"timeout-seconds"`
}

type Session struct {
	Secret                  string
	CacheAdapterIdentifier  string `mapstructure:"cache-adapter-identifier"`
	CookieName              string `mapstructure:"cookie-name"`
	CookiePath              string `mapstructure:"cookie-path"`
	CookieDomain            string `mapstructure:"cookie-domain"`
	CookieSecure            bool   `mapstructure:"cookie-secure"`
	PersistentLifetimeHours int    `mapstructure:"persistent-lifetime-hours"`
}

type LogLevel string

const (
	Debug LogLevel = "debug"
	Trace LogLevel = "trace"
	Info  LogLevel = "info"
)

type GatewayConfiguration struct {
	Port          int
	LogLevel      LogLevel `mapstructure:"log-level"`
	Backend       Backend
	Session       Session
	CacheAdapters []CacheAdapter `mapstructure:"cache-adapters"`
	Routers       []Router
}
