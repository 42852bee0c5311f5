package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client (geocoding requests).
var UserAgent = "Go-Panchanga/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName        = "Go Panchanga"
	AppID          = "com.github.tartampluch.go-panchanga"
	KeyringService = "com.github.tartampluch.go-panchanga"
	LogFileName    = "app.log"
	ConfigName     = ".go-panchanga"
	ConfigType     = "toml"
	EnvPrefix      = "GO_PANCHANGA"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// FilePermPublic represents -rw-r--r--, used for exported calendars.
	FilePermPublic fs.FileMode = 0644

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion = "version"
	FlagDebug   = "debug"
	FlagConfig  = "config"
	FlagFormat  = "format"
	FlagLang    = "lang"

	FlagDate    = "date"
	FlagTime    = "time"
	FlagLat     = "lat"
	FlagLon     = "lon"
	FlagOffset  = "offset"
	FlagPlace   = "place"
	FlagDays    = "days"
	FlagOut     = "out"
	FlagVCard   = "vcard"
	FlagRemind  = "remind"
	FlagName    = "name"
	FlagA       = "a"
	FlagB       = "b"
	FlagDelete  = "delete"
	FlagAddr    = "addr"
	FlagRefresh = "refresh"

	// Prefixes of the per-person flags of the match command (--a-date, --b-lat...).
	FlagPrefixA = "a-"
	FlagPrefixB = "b-"

	FlagDescVersion = "Show application version and exit"
	FlagDescDebug   = "Enable debug logging"
	FlagDescConfig  = "Config file (default .go-panchanga.toml in cwd or home)"
	FlagDescFormat  = "Output format: json or text"
	FlagDescLang    = "Language for text output (en, hi)"
	FlagDescDate    = "Civil date YYYY-MM-DD (default today)"
	FlagDescTime    = "Civil time HH:MM[:SS] (default now)"
	FlagDescLat     = "Latitude in degrees (north positive)"
	FlagDescLon     = "Longitude in degrees (east positive)"
	FlagDescOffset  = "UTC offset in hours, e.g. 5.5"
	FlagDescPlace   = "Place name to geocode instead of --lat/--lon/--offset"
	FlagDescDays    = "Number of consecutive days to export"
	FlagDescOut     = "Output file (default stdout)"
	FlagDescVCard   = "vCard file holding birth records"
	FlagDescRemind  = "ISO8601 alarm trigger before Rahu Kaal, e.g. -PT15M"
	FlagDescName    = "Display name of the native"
	FlagDescA       = "Name of the first person in --vcard"
	FlagDescB       = "Name of the second person in --vcard"
	FlagDescDelete  = "Remove the stored key instead of setting it"
	FlagDescAddr    = "Listen address of the feed server"
	FlagDescRefresh = "Interval between feed refreshes"

	MsgVersionOutput = "%s version %s (%s/%s)\n"

	FormatJSON = "json"
	FormatText = "text"
)

// -----------------------------------------------------------------------------
// Settings Keys (viper)
// -----------------------------------------------------------------------------

const (
	KeyFrame             = "frame"
	KeyAyanamsa          = "ayanamsa"
	KeyHouseSystem       = "house_system"
	KeyKaranaScheme      = "karana_scheme"
	KeyCombustionOrb     = "combustion_orb"
	KeyTablesFile        = "tables_file"
	KeyLanguage          = "language"
	KeyGeocoderEndpoint  = "geocoder.endpoint"
	KeyGeocoderUserAgent = "geocoder.user_agent"
	KeyGeocoderTimeout   = "geocoder.timeout"
	KeyDebug             = "debug"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	FrameSidereal = "sidereal"
	FrameTropical = "tropical"

	AyanamsaLahiri       = "lahiri"
	AyanamsaRaman        = "raman"
	AyanamsaKrishnamurti = "krishnamurti"

	HouseSystemWholeSign = "whole-sign"
	HouseSystemEqual     = "equal"

	KaranaSchemeSource      = "source"
	KaranaSchemeTraditional = "traditional"

	DefaultFrame         = FrameSidereal
	DefaultAyanamsa      = AyanamsaLahiri
	DefaultHouseSystem   = HouseSystemWholeSign
	DefaultKaranaScheme  = KaranaSchemeSource
	DefaultCombustionOrb = 8.0
	DefaultLanguage      = "en"
	DefaultExportDays    = 7
	DefaultGeocoderURL   = "https://nominatim.openstreetmap.org"

	// Placeholder sunrise/sunset used when rise/set cannot be resolved (polar day/night).
	FallbackSunriseHour = 6
	FallbackSunsetHour  = 18

	// DateOnlyHour is the local hour assumed when a date is given without a time.
	DateOnlyHour = 12

	// Labels of unnamed people in match errors.
	LabelPersonA = "person A"
	LabelPersonB = "person B"

	// AbhijitHalfWidth is the half-width of the midday muhurta around local noon.
	AbhijitHalfWidth = 24 * time.Minute

	// MeanLunarElongationRate is the mean Moon-Sun relative speed in degrees per day.
	MeanLunarElongationRate = 12.19071064

	// KaranaSpeedBaseline is the time step (days) used to estimate the relative speed.
	KaranaSpeedBaseline = 0.5

	// SpeedStepDays is the half-step of the central difference used for ecliptic speed.
	SpeedStepDays = 0.5

	// MaxUTCOffset bounds the accepted UTC offsets (hours).
	MaxUTCOffset = 14.0
)

// -----------------------------------------------------------------------------
// iCalendar Export
// -----------------------------------------------------------------------------

const (
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Panchanga//Engine//EN"
	ICalCalName   = "Panchanga"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "gopanchanga"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTEnd       = "DTEND"
	PropDTStamp     = "DTSTAMP"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"
	PropCategories  = "CATEGORIES"

	CategoryPanchanga = "Panchanga"

	// FormatUIDName is hashed into a deterministic UUID (name, day, location).
	FormatUIDName = "%s|%s|%.4f|%.4f"
	FormatUID     = "%s@%s"

	// StubVCalendar is the minimal valid iCalendar object used when no days are exported.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"
)

// -----------------------------------------------------------------------------
// vCard Properties
// -----------------------------------------------------------------------------

const (
	VCardBirthPlace = "BIRTHPLACE"

	GeoURIPrefix = "geo:"
	FallbackName = "Unknown"
)

// -----------------------------------------------------------------------------
// Data Formats
// -----------------------------------------------------------------------------

const (
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateTimeFormatBasic = "20060102T150405"
	DateTimeFormatDash  = "2006-01-02T15:04:05"
	DateTimeFormatShort = "2006-01-02T15:04"
	TimeFormatClock     = "15:04"
	TimeFormatSeconds   = "15:04:05"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	MaxHTTPResponseSize = 1 * 1024 * 1024 // 1MB, geocoder answers are tiny
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	GeocoderSearchPath  = "/search"
	GeocoderFormat      = "jsonv2"

	GeocoderParamQuery  = "q"
	GeocoderParamFormat = "format"
	GeocoderParamLimit  = "limit"
	GeocoderParamKey    = "key"

	// KeyringAccountGeocoder is the keyring account holding the optional geocoder API key.
	KeyringAccountGeocoder = "geocoder"

	HeaderUserAgent = "User-Agent"
	HeaderAccept    = "Accept"
	MimeJSON        = "application/json"
)

// -----------------------------------------------------------------------------
// Feed Server
// -----------------------------------------------------------------------------

const (
	DefaultServerAddr  = "127.0.0.1:18080"
	DefaultRefresh     = 1 * time.Hour
	ShutdownTimeout    = 5 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 30 * time.Second
	ServerIdleTimeout  = 60 * time.Second
	RetryAfterSeconds  = "10"
	AllowedMethods     = "GET, HEAD"

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1

	RouteCalendar = "/panchanga.ics"
	RouteToday    = "/today.json"

	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSONUTF8        = "application/json; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`

	HTTPMsgInitializing = "Feed initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrGeocoderStatus   = "geocoder returned unexpected status"
	ErrGeocoderDecode   = "failed to decode geocoder response"
	ErrGeocoderRequest  = "failed to create geocoder request"
	ErrGeocoderNetwork  = "network error during geocoding"
	ErrVCardParse       = "failed to parse vCard stream"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrDateParse        = "unable to parse date"
	ErrTimeParse        = "unable to parse time"
	ErrTablesLoad       = "failed to load koota tables"
	ErrTablesInvalid    = "koota tables are inconsistent"
	ErrSettingsInvalid  = "invalid settings"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrAppFailed        = "application failed unexpectedly"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrLocationRequired = "either --place or --lat/--lon/--offset is required"
	ErrPersonNotFound   = "no birth record with that name"
	ErrUnknownZone      = "unknown time zone"
	ErrKeyring          = "keyring operation failed"
	ErrDateRequired     = "--date is required for birth records"
	ErrAPIKeyMissing    = "an API key argument is required unless --delete is set"
	ErrWriteOutput      = "failed to write output file"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrAddrRequired     = "server listen address is required"
	ErrWriteResp        = "failed to write HTTP response"
	ErrRefreshFailed    = "feed refresh failed"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStarting    = "Starting application"
	MsgAppStop        = "Application stopped gracefully"
	MsgLogWarning     = "Warning: %s at %s: %v\n"
	MsgPositions      = "Positions resolved"
	MsgPanchanga      = "Panchanga derived"
	MsgChartBuilt     = "Birth chart built"
	MsgMatchScored    = "Compatibility scored"
	MsgSunDegenerate  = "Sunrise/sunset unresolved, using fixed placeholders"
	MsgMoonNoRiseSet  = "Moon does not rise or set on this date"
	MsgGeocodeStart   = "Initiating geocoder lookup"
	MsgGeocodeMiss    = "Place not resolved by geocoder"
	MsgGeocodeHit     = "Place resolved"
	MsgKeyringMiss    = "No geocoder API key in keyring"
	MsgSkippedCard    = "Skipping malformed vCard"
	MsgSkippedDate    = "Skipping invalid birth date"
	MsgSkippedGeo     = "Ignoring malformed GEO property"
	MsgSkippedZone    = "Ignoring malformed TZ property"
	MsgSkippedPlace   = "Skipping card without usable birth location"
	MsgRecordsLoaded  = "Birth records loaded"
	MsgCalendarBuilt  = "Calendar generation successful"
	MsgTablesLoaded   = "Koota tables loaded"
	MsgLocaleSkip     = "Skipping non-locale file"
	MsgLocaleBadName  = "Skipping malformed locale filename"
	MsgLocaleLoaded   = "Locale loaded successfully"
	MsgTransMissing   = "Missing translation key"
	MsgSettingsLoaded = "Settings loaded"
	MsgAPIKeyStored   = "Geocoder API key stored in keyring"
	MsgAPIKeyDeleted  = "Geocoder API key removed from keyring"
	MsgOutputWritten  = "Output written"
	MsgServerListen   = "HTTP server listening"
	MsgServerStop     = "Shutting down HTTP server..."
	MsgFeedUpdated    = "Feed document updated"
	MsgWorkerStart    = "Refresh worker started"
	MsgWorkerStop     = "Refresh worker stopped"
)

// -----------------------------------------------------------------------------
// Translation Keys (i18n)
// -----------------------------------------------------------------------------

const (
	TKeyLblDate      = "LblDate"
	TKeyLblPlace     = "LblPlace"
	TKeyLblVara      = "LblVara"
	TKeyLblTithi     = "LblTithi"
	TKeyLblNakshatra = "LblNakshatra"
	TKeyLblYoga      = "LblYoga"
	TKeyLblKarana    = "LblKarana"
	TKeyLblNext      = "LblNext"
	TKeyLblSunRashi  = "LblSunRashi"
	TKeyLblMoonRashi = "LblMoonRashi"
	TKeyLblSunrise   = "LblSunrise"
	TKeyLblSunset    = "LblSunset"
	TKeyLblMoonrise  = "LblMoonrise"
	TKeyLblMoonset   = "LblMoonset"
	TKeyLblNotSeen   = "LblNotSeen"
	TKeyLblApprox    = "LblApprox"
	TKeyLblDayChog   = "LblChoghadiyaDay"
	TKeyLblNightChog = "LblChoghadiyaNight"

	TKeyLblName      = "LblName"
	TKeyLblAscendant = "LblAscendant"
	TKeyColBody      = "ColBody"
	TKeyColSign      = "ColSign"
	TKeyColDegree    = "ColDegree"
	TKeyColNakshatra = "ColNakshatra"
	TKeyColHouse     = "ColHouse"
	TKeyColFlags     = "ColFlags"
	TKeyColKaraka    = "ColKaraka"
	TKeyColNavamsa   = "ColNavamsa"
	TKeyFlagRetro    = "FlagRetro"
	TKeyFlagCombust  = "FlagCombust"

	TKeyColKoota    = "ColKoota"
	TKeyColScore    = "ColScore"
	TKeyLblTotal    = "LblTotal"
	TKeyLblTier     = "LblTier"
	TKeyLblFindings = "LblFindings"

	TKeyEvtRahuKaal   = "EventRahuKaal"
	TKeyEvtGulikaKaal = "EventGulikaKaal"
	TKeyEvtYamaganda  = "EventYamaganda"
	TKeyEvtAbhijit    = "EventAbhijit"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyValue     = "value"
	LogKeyName      = "name"
	LogKeyPlace     = "place"
	LogKeyInstant   = "instant_jd"
	LogKeyLat       = "lat"
	LogKeyLon       = "lon"
	LogKeyOffset    = "utc_offset"
	LogKeyZone      = "zone"
	LogKeyTithi     = "tithi"
	LogKeyKarana    = "karana"
	LogKeyAscendant = "ascendant"
	LogKeyScore     = "score"
	LogKeyTier      = "tier"
	LogKeyFindings  = "findings"
	LogKeyCount     = "count"
	LogKeyDays      = "days"
	LogKeyTables    = "tables"
	LogKeyFrame     = "frame"
	LogKeyDuration  = "duration_ms"
	LogKeyAddr      = "addr"
	LogKeyRoute     = "route"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyInterval  = "interval"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompMain     = "main"
	CompCLI      = "cli"
	CompEngine   = "engine"
	CompGeocoder = "geocoder"
	CompContacts = "contacts"
	CompExport   = "export"
	CompI18n     = "i18n"
	CompSettings = "settings"
	CompServer   = "server"
	CompWorker   = "worker"
)
