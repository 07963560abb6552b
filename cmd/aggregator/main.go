package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jim-devENG/ispora-engine-sub002/api"
	"github.com/Jim-devENG/ispora-engine-sub002/app_config"
	"github.com/Jim-devENG/ispora-engine-sub002/feed"
	"github.com/Jim-devENG/ispora-engine-sub002/model"
	"github.com/Jim-devENG/ispora-engine-sub002/realtime"
	. "github.com/Jim-devENG/ispora-engine-sub002/utils"
	"github.com/Jim-devENG/ispora-engine-sub002/utils/dotenv"
	. "github.com/Jim-devENG/ispora-engine-sub002/utils/log"
)

var (
	AppConfigPath *string
	// Configuration to customize binary startup.
	AppConfig app_config.AggregatorAppConfig
)

// init() will always be called on before the execution of main function.
func init() {
	AppConfigPath = flag.String("app_config_path", "cmd/aggregator/config.yaml", "path to aggregator app config")
	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}
}

func backendUrl() string {
	if url := os.Getenv("FEED_BACKEND_URL"); url != "" {
		return url
	}
	return AppConfig.FEED_BACKEND_URL
}

func main() {
	flag.Parse()
	// Re-derive logger fields now that the service flag is bound.
	InitLogger()

	AppConfig = app_config.ParseAggregatorAppConfig(*AppConfigPath)

	client := api.NewHttpFeedClient(backendUrl(), api.NewDefaultHttpClient())
	service := feed.NewService(client, client)
	service.SetRemoteFetchLimit(AppConfig.REMOTE_FETCH_LIMIT)

	// Realtime when the subscription endpoint is reachable, otherwise the
	// bridge falls back to polling on its own.
	var subscriber realtime.Subscriber
	if !AppConfig.FORCE_POLLING {
		subscriber = realtime.NewWebsocketSubscriber(client.SubscriptionUrl())
	}
	bridge := realtime.NewBridge(service, subscriber, NewEventBus(), func(items []*model.FeedItem) {
		Log.Info("feed refreshed, items: ", len(items))
	})
	if AppConfig.POLL_INTERVAL_SECOND > 0 {
		bridge.SetPollInterval(time.Duration(AppConfig.POLL_INTERVAL_SECOND) * time.Second)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := bridge.Start(ctx); err != nil {
		Log.Fatal("fail to start feed bridge : ", err)
	}
	defer bridge.Stop()

	Log.Info("feed aggregator starts up")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	Log.Info("feed aggregator shutdown")
}
