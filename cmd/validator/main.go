package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/apparentlyarhm/validator/gameapi"
	vlog "github.com/apparentlyarhm/validator/log"
	"github.com/prometheus/common/version"
	"github.com/spf13/viper"
)

var (
	versionFlag      = flag.Bool("v", false, "Displays the version and then quits")
	configLocation   = flag.String("c", ".", "The config.json location")
	writeConfig      = flag.Bool("w", false, "Writes a config and exits")
	writeConfigForce = flag.Bool("init", false, "Forces writing of config and exits\nWARNING! This will destroy your config file")
	wg               sync.WaitGroup
	killChan         = make(chan struct{})
	log              = vlog.Log
)

type service interface {
	Start() error
	Stop()
}

func start(s service, name string) error {
	if err := s.Start(); err != nil {
		log.Warnf("Failed to start %s: %s", name, err)
		return fmt.Errorf("failed to start service %s: %w", name, err)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-killChan
		log.Printf("Requesting %s shutdown...", name)
		s.Stop()
	}()

	return nil
}

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Println(version.Print("validator"))
		return
	}
	log.WithField("build", version.BuildContext()).Printf("validator %s", version.Info())

	servicesCount := 1

	viper.SetConfigFile(fmt.Sprintf("%s/config.json", filepath.Clean(*configLocation)))
	setDefaults(viper.GetViper())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if *writeConfigForce {
		*writeConfig = true
	} else {
		err := viper.ReadInConfig() // Find and read the config file
		if err != nil {
			log.Println(err)
			flag.Usage()
			os.Exit(1)
		}
	}

	if *writeConfig {
		err := viper.WriteConfig()
		if err != nil {
			log.Fatalf("Could not write config: %s", err)
		}
		log.Printf("Wrote new config file to %s", viper.ConfigFileUsed())
		os.Exit(0)
	}

	store, err := newStorage(viper.GetViper())
	if err != nil {
		log.Fatalf("Could not open storage: %v", err)
	}
	if err := store.Init(); err != nil {
		log.Fatalf("Could not initialize storage: %v", err)
	}
	defer store.Close()

	webConfig, err := newServerConfig(viper.GetViper(), store)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// HTTP API server
	server := gameapi.NewServer(webConfig)
	if err := start(server, "HTTP Server"); err != nil {
		log.Fatalf("Could not start HTTP server, %v", err)
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(
		sc,
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGHUP,
	)
	<-sc

	log.Warn("Stopping...")
	for i := 0; i < servicesCount; i++ {
		go func() { killChan <- struct{}{} }()
	}

	wg.Wait()
}
