package app_config

import (
	"io/ioutil"
	"log"

	"gopkg.in/yaml.v2"
)

// This is the aggregator config for feed aggregation execution.
type AggregatorAppConfig struct {
	// Base URL of the backend of record serving feed and project APIs.
	FEED_BACKEND_URL string `yaml:"FEED_BACKEND_URL"`
	// Polling interval in seconds when the realtime subscription is
	// unavailable.
	POLL_INTERVAL_SECOND int64 `yaml:"POLL_INTERVAL_SECOND"`
	// Force polling even when the subscription endpoint is reachable.
	FORCE_POLLING bool `yaml:"FORCE_POLLING"`
	// Maximum number of items fetched from the backend per refresh.
	REMOTE_FETCH_LIMIT int `yaml:"REMOTE_FETCH_LIMIT"`
}

func ParseAggregatorAppConfig(path string) AggregatorAppConfig {
	c := AggregatorAppConfig{}
	yamlFile, err := ioutil.ReadFile(path)
	if err != nil {
		log.Fatal("yamlFile. get err: ", err.Error())
	}
	err = yaml.Unmarshal(yamlFile, &c)
	if err != nil {
		log.Fatal("Unmarshal: ", err)
	}
	return c
}
