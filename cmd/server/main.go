package main

import (
	"github.com/DataDog/datadog-go/statsd"
	"github.com/Jim-devENG/ispora-engine-sub002/bot"
	"github.com/Jim-devENG/ispora-engine-sub002/realtime"
	"github.com/Jim-devENG/ispora-engine-sub002/server"
	"github.com/Jim-devENG/ispora-engine-sub002/server/middlewares"
	. "github.com/Jim-devENG/ispora-engine-sub002/utils"
	"github.com/Jim-devENG/ispora-engine-sub002/utils/dotenv"
	. "github.com/Jim-devENG/ispora-engine-sub002/utils/flag"
	. "github.com/Jim-devENG/ispora-engine-sub002/utils/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	gintrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/gin-gonic/gin"
)

func cleanup() {
	CloseProfiler()
	CloseTracer()
	Log.Info("feed api server shutdown")
}

func NewDogStatsdClient() *statsd.Client {
	client, err := statsd.New("127.0.0.1:8125")
	if err != nil {
		Log.Warn("fail to initialize statsd client, metrics disabled: ", err)
		return nil
	}
	return client
}

func main() {
	defer cleanup()

	Parse()
	// Re-derive logger fields now that the service flag is bound.
	InitLogger()

	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}
	middlewares.Setup()

	db, err := GetDBConnection()
	if err != nil {
		Log.Fatal("fail to connect database : ", err)
	}
	if err := DatabaseSetupAndMigration(db); err != nil {
		Log.Fatal("fail to migrate database : ", err)
	}

	deps := &server.Deps{
		DB:       db,
		Redis:    GetRedisClient(),
		Channels: realtime.NewFeedEventChannels(),
		Statsd:   NewDogStatsdClient(),
		Bus:      NewEventBus(),
		Notifier: bot.NewHighlightNotifier(),
	}

	// Default With the Logger and Recovery middleware already attached
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(gintrace.Middleware(ServiceName))

	server.RegisterRoutes(router, deps)

	Log.Info("feed api server starts up")
	router.Run(":8080")
}
