// Package client wires event types and embeddings to a runtime.
//
// A Client builds the registered event types and embeddings, keeps one
// reverse call connection per embedding and exposes the embedding store.
//
// # Basic Usage
//
//	b := embeddings.NewEmbeddingsBuilder().Register(dishes)
//	c, err := client.Run(client.Config{
//	    Transport:  natsTransport,
//	    EventTypes: events.NewBuilder(),
//	    Embeddings: b,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Stop()
//
//	dish, err := embeddings.Get[*Dish](ctx, c.Embeddings(), execution.DevelopmentTenant, "Taco")
//
// Embeddings that fail to build are reported in [Client.Results] and not
// registered. The others are registered as usual.
//
// # Settings
//
// [LoadSettings] reads the settings from the environment:
//
//	DOLITTLE_NATS_URL          nats://localhost:4222
//	DOLITTLE_SUBJECT_PREFIX    dolittle
//	DOLITTLE_PING_INTERVAL     5s
//	DOLITTLE_RECONNECT_DELAY   1s
//	DOLITTLE_MICROSERVICE_ID   (not set)
//	DOLITTLE_ENVIRONMENT       Development
//	DOLITTLE_VERSION           1.0.0
package client
