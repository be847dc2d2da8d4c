package context

import (
	gocontext "context"
	"fmt"
	"github.com/Alcereo/scoregate/pkg/auth"
	"github.com/Alcereo/scoregate/pkg/backend"
	"github.com/Alcereo/scoregate/pkg/cache"
	"github.com/Alcereo/scoregate/pkg/common"
	"github.com/Alcereo/scoregate/pkg/crypt"
	"github.com/Alcereo/scoregate/pkg/filters"
	"github.com/Alcereo/scoregate/pkg/routes"
	"github.com/Alcereo/scoregate/pkg/serializers"
	"github.com/satori/go.uuid"
	log "github.com/sirupsen/logrus"
	"net/http"
	"time"
)

const (
	defaultCookieName     = "session"
	defaultCookiePath     = "/"
	redisPingTimeout      = 3 * time.Second
	serverHeaderTimeout   = 10 * time.Second
	defaultLoginUrl       = "/login"
	defaultCsrfHeaderName = "X-CSRF-TOKEN"
)

var defaultSafeMethods = []string{http.MethodGet, http.MethodHead, http.MethodOptions}

type cacheAdapter interface {
	filters.SessionCachePort
	auth.UserAuthCachePort
}

type context struct {
	cacheAdapters     map[string]cacheAdapter
	sessionCache      filters.SessionCachePort
	sessionCookies    *filters.SessionCookies
	sessionStore      *auth.SessionStore
	encryptor         *crypt.Encryptor
	backend           routes.ScoreBackend
	renderer          routes.Renderer
	serverMultiplexer *http.ServeMux
}

func NewContext() *context {
	return &context{
		cacheAdapters:     make(map[string]cacheAdapter),
		renderer:          routes.NewJsonRenderer(),
		serverMultiplexer: http.NewServeMux(),
	}
}

func (ctx *context) SetupCache(adapters []CacheAdapter) {
	for _, adapter := range adapters {
		switch adapter.Type {
		case GoCache:
			log.Debugf("Adding GoCache cache adapter. Identifier: %s", adapter.Identifier)
			ctx.cacheAdapters[adapter.Identifier] = cache.NewGoCacheSessionCacheProvider(
				adapter.ExpirationTimeHours,
				adapter.EvictScheduleTimeHours,
			)
		case Redis:
			log.Debugf("Adding Redis cache adapter. Identifier: %s; Address: %s", adapter.Identifier, adapter.RedisAddr)
			provider := cache.NewRedisSessionCacheProvider(
				adapter.RedisAddr,
				adapter.RedisPassword,
				adapter.RedisDb,
				adapter.ExpirationTimeHours,
			)
			pingCtx, cancel := gocontext.WithTimeout(gocontext.Background(), redisPingTimeout)
			if err := provider.Ping(pingCtx); err != nil {
				log.Warnf("Redis cache adapter '%v' is not reachable yet. Reason: %v", adapter.Identifier, err)
			}
			cancel()
			ctx.cacheAdapters[adapter.Identifier] = provider
		default:
			panic(fmt.Errorf("Undefined cache adapter type: %v.\n", adapter.Type))
		}
	}
}

func (ctx *context) SetupSession(session Session) {
	if session.Secret == "" {
		panic(fmt.Errorf("Session secret is required. Set session.secret or SESSION_SECRET.\n"))
	}
	adapter := ctx.cacheAdapters[session.CacheAdapterIdentifier]
	if adapter == nil {
		panic(fmt.Errorf("Session cache adapter with identifier '%v' not found.\n", session.CacheAdapterIdentifier))
	}

	cookieName := session.CookieName
	if cookieName == "" {
		cookieName = defaultCookieName
	}
	cookiePath := session.CookiePath
	if cookiePath == "" {
		cookiePath = defaultCookiePath
	}

	ctx.sessionCache = adapter
	ctx.sessionCookies = filters.NewSessionCookies(
		cookieName,
		cookiePath,
		session.CookieDomain,
		session.CookieSecure,
		serializers.NewJwtSessionCookieSerializer(session.Secret),
	)
	ctx.sessionStore = auth.NewSessionStore(
		adapter,
		adapter,
		ctx.sessionCookies,
		time.Hour*time.Duration(session.PersistentLifetimeHours),
	)
	ctx.encryptor = crypt.NewEncryptor(session.Secret)
}

func (ctx *context) SetupBackend(settings Backend) {
	url := settings.Url
	if url == "" {
		url = backend.DefaultUrl
	}
	timeout := time.Second * time.Duration(settings.TimeoutSeconds)
	log.Debugf("Using scoring backend. Url: %s; Timeout: %v", url, timeout)
	ctx.backend = backend.NewClient(url, timeout)
}

func (ctx *context) SetupRouters(routers []Router) {
	if ctx.sessionStore == nil || ctx.backend == nil {
		panic(fmt.Errorf("Session and backend have to be set up before routers.\n"))
	}
	for _, router := range routers {
		log.Debugf("Adding %v router. Pattern: %s", router.Type, router.Pattern)
		handler := ctx.BuildRouter(router)
		rootFilterHandler := ctx.BuildFilterHandlers(router.Filters, handler)
		ctx.handle(router.Pattern, rootFilterHandler)
	}
}

func (ctx *context) BuildRouter(router Router) common.RequestHandler {
	loginUrl := router.LoginUrl
	if loginUrl == "" {
		loginUrl = defaultLoginUrl
	}
	switch router.Type {
	case Home:
		return routes.NewRedirectRouter(router.RedirectUrl)
	case LoginPage:
		return routes.NewLoginPageRouter(ctx.renderer)
	case Login:
		return routes.NewLoginRouter(ctx.backend, ctx.sessionStore, ctx.renderer, router.RedirectUrl)
	case RegisterPage:
		return routes.NewRegisterPageRouter(ctx.renderer)
	case Register:
		return routes.NewRegisterRouter(ctx.backend, ctx.renderer, router.RedirectUrl)
	case Game:
		return routes.NewGameRouter(ctx.backend, ctx.renderer, loginUrl)
	case ScoreSubmission:
		return routes.NewScoreSubmissionRouter(ctx.backend, ctx.renderer, loginUrl)
	case Leaderboard:
		return routes.NewLeaderboardRouter(ctx.backend, ctx.sessionStore, ctx.renderer)
	case Logout:
		return routes.NewLogoutRouter(ctx.sessionStore, router.RedirectUrl)
	case ForgotPassword:
		return routes.NewStaticViewRouter(ctx.renderer, routes.ForgotView)
	default:
		panic(fmt.Errorf("Undefined router type: %v.\n", router.Type))
	}
}

func (ctx *context) BuildFilterHandlers(filters []Filter, mainHandler common.RequestHandler) (rootHandler common.RequestHandler) {
	if filters == nil {
		return mainHandler
	}

	currentHandler := mainHandler

	for i := len(filters) - 1; i >= 0; i-- {
		handler := ctx.BuildFilterHandler(filters[i])
		if handler == nil {
			continue
		}
		handler.SetNext(currentHandler)
		currentHandler = handler
	}

	return currentHandler
}

func (ctx *context) BuildFilterHandler(filter Filter) common.RequestChainedHandler {
	switch filter.Type {
	case LogFilter:
		log.Debugf("Adding Log filter. Name: %s", filter.Name)
		handler := filters.CreateLogFilter(filter.Name, filter.Template)
		if handler == nil {
			return nil
		}
		return handler
	case SessionFilter:
		log.Debugf("Adding session filter. Name: %s", filter.Name)
		return filters.CreateSessionFilter(filter.Name, ctx.sessionCookies, ctx.sessionCache)
	case UserAuthenticationFilter:
		log.Debugf("Adding user authentication filter. Name: %s", filter.Name)
		loginUrl := filter.LoginUrl
		if loginUrl == "" {
			loginUrl = defaultLoginUrl
		}
		return auth.NewUserAuthenticationFilter(ctx.sessionStore, filter.Name, loginUrl)
	case CsrfFilter:
		log.Debugf("Adding CSRF filter. Name: %s", filter.Name)
		headerName := filter.HeaderName
		if headerName == "" {
			headerName = defaultCsrfHeaderName
		}
		safeMethods := filter.SafeMethods
		if len(safeMethods) == 0 {
			safeMethods = defaultSafeMethods
		}
		return filters.NewCsrfFilter(filter.Name, headerName, safeMethods, ctx.encryptor)
	default:
		panic(fmt.Errorf("Undefined filter type: %v.\n", filter.Type))
	}
}

// handle seeds every request with its own log entry before entering the chain.
func (ctx *context) handle(pattern string, rootHandler common.RequestHandler) {
	ctx.serverMultiplexer.HandleFunc(pattern, func(writer http.ResponseWriter, request *http.Request) {
		entry := log.WithFields(log.Fields{
			"method":    request.Method,
			"path":      request.URL.Path,
			"requestId": uuid.NewV4().String(),
		})
		rootHandler.Handle(entry, writer, request)
	})
}

func (ctx *context) Handler() http.Handler {
	return ctx.serverMultiplexer
}

func (ctx *context) BuildServer(port int) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%v", port),
		Handler:           ctx.serverMultiplexer,
		ReadHeaderTimeout: serverHeaderTimeout,
	}
}
