package utils

import (
	"github.com/Jim-devENG/ispora-engine-sub002/utils/dotenv"
	. "github.com/Jim-devENG/ispora-engine-sub002/utils/flag"
	Logger "github.com/Jim-devENG/ispora-engine-sub002/utils/log"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

func init() {
	// Datadog tracer

	env := "development"
	if dotenv.IsProdEnv() {
		env = "production"
	}

	tracer.Start(
		tracer.WithService(ServiceName),
		tracer.WithEnv(env),
	)

	Logger.Log.Info("tracer initialized")
}

// Stop tracer, OK to be closed multiple times
func CloseTracer() {
	// Datadog tracer
	tracer.Stop()
}
