package common

import (
	"log"
	"os"
	"sync"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LOG_LEVEL int

const (
	LEVEL_DEBUG LOG_LEVEL = iota
	LEVEL_INFO
	LEVEL_WARN
	LEVEL_ERROR
)

var (
	LOG_LEVEL_Name = map[LOG_LEVEL]string{
		0: "DEBUG",
		1: "INFO",
		2: "WARN",
		3: "ERROR",
	}
	LOG_LEVEL_Value = map[string]LOG_LEVEL{
		"DEBUG": 0,
		"INFO":  1,
		"WARN":  2,
		"ERROR": 3,
	}
)

const (
	LOG_MODE_DEV  = "DEV"
	LOG_MODE_PROD = "PROD"
)

type LogConfig struct {
	BriefMode          string
	ModuleSpecialLevel map[string]LOG_LEVEL

	LogPath        string
	LogLevel       LOG_LEVEL
	RotationMaxAge int // days the rotated files are kept
	RotationTime   int // hours between rotations
	RotationSize   int // MB per rotated file
	ShowLine       bool
	LogInConsole   bool
}

// DefaultLogConfig returns the DEV brief unless PROD is asked for.
func DefaultLogConfig(isDEV bool) *LogConfig {
	if isDEV {
		return defaultBriefLogConfigForDEV()
	}

	return defaultBriefLogConfigForPROD()
}

func defaultBriefLogConfigForDEV() *LogConfig {
	return &LogConfig{
		LogPath:        "./m1.dev.log",
		LogLevel:       LEVEL_DEBUG,
		RotationMaxAge: 1,
		RotationTime:   1,
		RotationSize:   10,
		ShowLine:       true,
		LogInConsole:   true,
	}
}

func defaultBriefLogConfigForPROD() *LogConfig {
	return &LogConfig{
		LogPath:        "./m1.prod.log",
		LogLevel:       LEVEL_INFO,
		RotationMaxAge: 1,
		RotationTime:   24,
		RotationSize:   30,
		ShowLine:       true,
		LogInConsole:   false,
	}
}

func adjustLogConfig(name string, lc *LogConfig) *LogConfig {
	ok := true
	if lc.BriefMode != "" {
		if lc.BriefMode == LOG_MODE_PROD {
			ok = false
		}
		return DefaultLogConfig(ok)
	}

	newC := &LogConfig{}
	newC.LogLevel, ok = lc.ModuleSpecialLevel[name]
	if !ok {
		newC.LogLevel = lc.LogLevel
	}
	newC.LogPath = lc.LogPath
	newC.LogInConsole = lc.LogInConsole
	newC.ShowLine = lc.ShowLine
	newC.RotationSize = lc.RotationSize
	newC.RotationTime = lc.RotationTime
	newC.RotationMaxAge = lc.RotationMaxAge

	return newC
}

func NewSugaredLogger(name string, lc *LogConfig) *zap.SugaredLogger {
	lcc := adjustLogConfig(name, lc)

	var zapLevel zapcore.Level
	switch lcc.LogLevel {
	case LEVEL_DEBUG:
		zapLevel = zap.DebugLevel
	case LEVEL_INFO:
		zapLevel = zap.InfoLevel
	case LEVEL_WARN:
		zapLevel = zap.WarnLevel
	case LEVEL_ERROR:
		zapLevel = zap.ErrorLevel
	default:
		zapLevel = zap.InfoLevel
	}

	priorityLevel := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapLevel
	})

	fileName := lcc.LogPath + ".%Y%m%d%H"
	rotationWriter, err := rotatelogs.New(
		fileName,
		rotatelogs.WithRotationTime(time.Duration(lcc.RotationTime)*time.Hour),
		rotatelogs.WithRotationSize(int64(lcc.RotationSize*1024*1024)),
		rotatelogs.WithMaxAge(time.Hour*24*time.Duration(lcc.RotationMaxAge)),
	)
	if err != nil {
		log.Fatalf("new rotation log failed, %s", err)
	}

	var syncer zapcore.WriteSyncer
	if lcc.LogInConsole {
		syncer = zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout), zapcore.AddSync(rotationWriter))
	} else {
		syncer = zapcore.AddSync(rotationWriter)
	}

	customLevelEncoder := func(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString("[" + level.CapitalString() + "]")
	}
	customTimeEncoder := func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format("2006-01-02 15:04:05.000"))
	}
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "line",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    customLevelEncoder,
		EncodeTime:     customTimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
	encoder := zapcore.NewConsoleEncoder(encoderConfig)
	core := zapcore.NewCore(encoder, syncer, priorityLevel)
	logger := zap.New(core).Named(name)
	defer logger.Sync()

	var opts []zap.Option
	if lcc.ShowLine {
		opts = append(opts, zap.AddCaller())
	}
	//the zap logger is wrapped by M1Logger, skip that frame
	opts = append(opts, zap.AddCallerSkip(1))
	logger = logger.WithOptions(opts...)

	return logger.Sugar()
}

const (
	MODULE_CORPUS  = "[Corpus]"
	MODULE_TRAINER = "[Trainer]"
	MODULE_EXPORT  = "[Export]"
	MODULE_SESSION = "[Session]"
)

type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
}

type M1Logger struct {
	zlog  *zap.SugaredLogger
	name  string
	mutex sync.RWMutex
}

func (l *M1Logger) Logger() *zap.SugaredLogger {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return l.zlog
}

func (l *M1Logger) Debug(args ...interface{}) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	l.zlog.Debug(args...)
}

func (l *M1Logger) Debugf(format string, args ...interface{}) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	l.zlog.Debugf(format, args...)
}

func (l *M1Logger) Error(args ...interface{}) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	l.zlog.Error(args...)
}

func (l *M1Logger) Errorf(format string, args ...interface{}) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	l.zlog.Errorf(format, args...)
}

func (l *M1Logger) Fatal(args ...interface{}) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	l.zlog.Fatal(args...)
}

func (l *M1Logger) Fatalf(format string, args ...interface{}) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	l.zlog.Fatalf(format, args...)
}

func (l *M1Logger) Info(args ...interface{}) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	l.zlog.Info(args...)
}

func (l *M1Logger) Infof(format string, args ...interface{}) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	l.zlog.Infof(format, args...)
}

func (l *M1Logger) Warn(args ...interface{}) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	l.zlog.Warn(args...)
}

func (l *M1Logger) Warnf(format string, args ...interface{}) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	l.zlog.Warnf(format, args...)
}

func (l *M1Logger) SetLogger(logger *zap.SugaredLogger) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.zlog = logger
}

var (
	m1LoggersMap = make(map[string]*M1Logger)
	loggerMutex  sync.RWMutex
	m1LogConfig  *LogConfig
)

func GetLogger(name string) *M1Logger {
	loggerMutex.Lock()
	defer loggerMutex.Unlock()

	if logger, ok := m1LoggersMap[name]; ok {
		return logger
	}

	if m1LogConfig == nil {
		m1LogConfig = DefaultLogConfig(true)
	}

	zapLogger := NewSugaredLogger(name, m1LogConfig)
	logger := &M1Logger{
		name: name,
		zlog: zapLogger,
	}
	m1LoggersMap[name] = logger

	return logger
}

// SetLogConfig replaces the config and rebuilds every logger already handed out.
func SetLogConfig(config *LogConfig) {
	loggerMutex.Lock()
	defer loggerMutex.Unlock()

	m1LogConfig = config
	for _, logger := range m1LoggersMap {
		newLogger := NewSugaredLogger(logger.name, m1LogConfig)
		logger.SetLogger(newLogger)
	}
}
