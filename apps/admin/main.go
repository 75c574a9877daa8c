package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/Eordinary01/View-Assignment/core"
	"github.com/Eordinary01/View-Assignment/storage/database/mongodb"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up DB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := mongodb.Open(ctx, conf)
	errAndDie(err)
	defer func() { errAndDie(mongodb.Close(context.Background(), db)) }()
	errAndDie(mongodb.EnsureIndexes(ctx, db))

	// start CLI
	cli := commandLine{
		conf:    conf,
		usrRepo: mongodb.NewUserRepository(db),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
