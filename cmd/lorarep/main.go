package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gerontec/lorachat/pkg/chat"
	"github.com/gerontec/lorachat/pkg/node"
	"github.com/gerontec/lorachat/pkg/repeater"
	"github.com/gerontec/lorachat/pkg/transport"
)

func usage() {
	flag.PrintDefaults()
}

func showUsageAndExit(exitCode int) {
	fmt.Println("LoRa repeater, bridging a serial radio to a NATS backhaul")
	usage()
	os.Exit(exitCode)
}

func main() {
	var configFile = flag.String("c", "", "Configuration file")
	var serialPort = flag.String("p", "", "Serial port (overrides configuration)")
	var channelName = flag.String("ch", "", "Channel name (default: first configured channel)")
	var statsInterval = flag.Int("stats", 0, "Log forwarding statistics every N seconds")
	var showHelp = flag.Bool("h", false, "Show help")

	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()

	if *showHelp {
		showUsageAndExit(0)
	}

	if *configFile == "" {
		log.Fatal("Configuration file is not specified")
	}

	config, err := chat.LoadConfiguration(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %s", err.Error())
	}

	channel := config.Channel(*channelName)
	if channel == nil {
		log.Fatalf("Channel '%s' is not configured", *channelName)
	}

	port := config.SerialPort
	if *serialPort != "" {
		port = *serialPort
	}

	if port == "" {
		log.Fatal("Serial port is not specified")
	}

	if config.NatsUrl == "" {
		log.Fatal("NATS url is not specified")
	}

	radio, err := transport.OpenSerial(port, channel.Device.BaudRate)
	if err != nil {
		log.Fatalf("Failed to open serial port: %s", err.Error())
	}

	// The repeater publishes radio uplinks where the nodes listen and
	// listens where the nodes publish, so the subject pair is swapped
	// relative to the chat configuration.
	backhaul, err := transport.DialBridge(config.NatsUrl, config.NatsSubSubject, config.NatsPubSubject)
	if err != nil {
		radio.Close()
		log.Fatalf("Failed to connect to NATS: %s", err.Error())
	}

	historySize := config.HistorySize
	if historySize == 0 {
		historySize = node.DefaultHistorySize
	}

	r := repeater.New(radio, backhaul, historySize)
	r.Start()
	defer r.Stop()

	log.Printf("Repeater running on %s <-> %s", port, config.NatsUrl)

	if *statsInterval > 0 {
		go func() {
			ticker := time.NewTicker(time.Duration(*statsInterval) * time.Second)
			defer ticker.Stop()

			for range ticker.C {
				log.Printf("forwarded %d, suppressed %d", r.Forwarded(), r.Suppressed())
			}
		}()
	}

	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c
	r.Stop()
}
