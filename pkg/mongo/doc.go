// Package mongo manages the MongoDB connection behind the catalog, pricing
// and contract stores.
//
// Configuration comes from the environment (see Config). New retries the
// initial connect and ping, EnsureIndexes creates the indexes the stores need,
// and Healthcheck returns a ping check:
//
//	var cfg mongo.Config
//	config.MustLoad(&cfg)
//
//	db, err := mongo.NewWithDatabase(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer db.Client().Disconnect(context.Background())
//
//	if err := mongo.EnsureIndexes(ctx, db, mongo.DefaultIndexes()); err != nil {
//		log.Fatal(err)
//	}
//
// Connection failures match ErrFailedToConnectToMongo under errors.Is.
package mongo
