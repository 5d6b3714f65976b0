package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gerontec/lorachat/pkg/chat"
	"github.com/gerontec/lorachat/pkg/envelope"
	"github.com/gerontec/lorachat/pkg/node"
	"github.com/gerontec/lorachat/pkg/transport"
	"github.com/gerontec/lorachat/pkg/types"
)

func usage() {
	flag.PrintDefaults()
}

func showUsageAndExit(exitCode int) {
	fmt.Println("LoRa crisis chat")
	usage()
	os.Exit(exitCode)
}

func main() {
	var configFile = flag.String("c", "", "Configuration file")
	var serialPort = flag.String("p", "", "Serial port (overrides configuration)")
	var username = flag.String("u", "", "Username (overrides configuration)")
	var channelName = flag.String("ch", "", "Channel name (default: first configured channel)")
	var sendText = flag.String("send", "", "Send a single message and exit")
	var beaconSec = flag.Int("beacon", 0, "Status beacon mode, interval in seconds")
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

	if *username != "" {
		config.Username = *username
	}

	if config.Username == "" {
		log.Fatal("Username is not specified")
	}

	channel := config.Channel(*channelName)
	if channel == nil {
		log.Fatalf("Channel '%s' is not configured", *channelName)
	}

	port := config.SerialPort
	if *serialPort != "" {
		port = *serialPort
	}

	tr, err := openTransport(config, port, channel)
	if err != nil {
		log.Fatalf("Failed to open transport: %s", err.Error())
	}

	n := node.New(config.NetworkID, config.Address, tr, config.HistorySize)
	n.Start()
	defer n.Stop()

	minSendInterval := config.MinSendInterval.AsDuration()
	session := chat.NewSession(config.Username, channel.Name, n, minSendInterval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		cancel()
		n.Stop()
		os.Exit(0)
	}()

	switch {
	case *sendText != "":
		if err := session.Broadcast(*sendText); err != nil {
			log.Fatal(err)
		}
	case *beaconSec > 0:
		log.Printf("Beacon mode on #%s every %ds", session.Channel(), *beaconSec)
		go printIncoming(ctx, session)
		session.RunBeacon(ctx, time.Duration(*beaconSec)*time.Second, "")
	default:
		runInteractive(ctx, session, n)
	}
}

func openTransport(config *chat.Configuration, port string, channel *chat.ChannelConfiguration) (transport.Transport, error) {
	if port != "" {
		return transport.OpenSerial(port, channel.Device.BaudRate)
	}

	if config.NatsUrl != "" {
		return transport.DialBridge(config.NatsUrl, config.NatsPubSubject, config.NatsSubSubject)
	}

	return nil, fmt.Errorf("neither a serial port nor a NATS url is configured")
}

func printIncoming(ctx context.Context, session *chat.Session) {
	for {
		msg, env, err := session.Receive(ctx)
		if err != nil {
			return
		}

		dst := "ALL"
		if !env.IsBroadcast() {
			dst = "ME"
		}

		log.Printf("[%s -> %s] %s: %s", env.Source, dst, msg.Username, msg.Text)
	}
}

func runInteractive(ctx context.Context, session *chat.Session, n *node.Node) {
	log.Printf("Crisis chat on #%s as %s (network %s, address %s)",
		session.Channel(), session.Username(), n.NetworkID(), n.Address())
	log.Println("Commands: /status, /stats, @<hex addr> <message>, /quit")

	go printIncoming(ctx, session)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case err := <-n.Errors:
				log.Printf("transport: %s", err)
			}
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "/quit":
			return
		case line == "/status":
			sendOrReport(session.Broadcast(chat.DefaultBeaconText))
		case line == "/stats":
			stats := n.Stats()
			log.Printf("tx %d, rx %d, filtered %d", stats.Transmitted, stats.Received, stats.Filtered)
		case strings.HasPrefix(line, "@"):
			parts := strings.SplitN(line[1:], " ", 2)
			if len(parts) != 2 {
				log.Println("Usage: @<hex addr> <message>")
				continue
			}

			addr, err := strconv.ParseUint(parts[0], 16, 16)
			if err != nil {
				log.Println("Invalid address (use hex: @1234 message)")
				continue
			}

			if types.Address(addr) == envelope.Broadcast {
				sendOrReport(session.Broadcast(parts[1]))
			} else {
				sendOrReport(session.SendText(types.Address(addr), parts[1]))
			}
		default:
			sendOrReport(session.Broadcast(line))
		}
	}
}

func sendOrReport(err error) {
	if err != nil {
		log.Println(err)
	}
}
