package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/minimum2scp/acmesmith-google-cloud-dns/internal/config"
	"github.com/minimum2scp/acmesmith-google-cloud-dns/internal/dns"
	"github.com/minimum2scp/acmesmith-google-cloud-dns/internal/dns/providers/clouddns"
)

var (
	configFile string

	recordName    string
	recordType    string
	recordContent string
)

var rootCmd = &cobra.Command{
	Use:           "acmesmith-gcdns",
	Short:         "ACME dns-01 challenge responder for Google Cloud DNS",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "INI config file (env vars take precedence)")
	rootCmd.AddCommand(respondCmd, cleanupCmd, zonesCmd)

	for _, cmd := range []*cobra.Command{respondCmd, cleanupCmd} {
		cmd.Flags().StringVar(&recordName, "record-name", "_acme-challenge", "record name fragment prepended to the domain")
		cmd.Flags().StringVar(&recordType, "record-type", "TXT", "record type")
		cmd.Flags().StringVar(&recordContent, "record-content", "", "raw record value to publish")
		_ = cmd.MarkFlagRequired("record-content")
	}
}

// loadConfig reads configuration and applies the log level.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if configFile != "" {
		cfg, err = config.LoadFromINI(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logrus.SetLevel(level)
	return cfg, nil
}

// buildResponder wires config -> Cloud DNS client -> responder.
func buildResponder(ctx context.Context) (*dns.Responder, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	client, err := clouddns.NewClient(ctx, cfg.Project, clouddns.AuthMethod(cfg.AuthMethod), cfg.ServiceAccountKeyFile)
	if err != nil {
		return nil, err
	}

	querier := dns.NewNetQuerier(time.Duration(cfg.QueryTimeoutSec) * time.Second)
	opts := dns.Options{
		TTL:            int64(cfg.TTL),
		SubmitInterval: time.Duration(cfg.SubmitIntervalSec) * time.Second,
		SubmitTimeout:  time.Duration(cfg.SubmitTimeoutSec) * time.Second,
		VerifyInterval: time.Duration(cfg.VerifyIntervalSec) * time.Second,
		VerifyTimeout:  time.Duration(cfg.VerifyTimeoutSec) * time.Second,
	}
	return dns.NewResponder(client, querier, opts, logrus.StandardLogger()), nil
}

func challengeFromFlags() dns.Challenge {
	return dns.Challenge{
		RecordName:    recordName,
		RecordType:    recordType,
		RecordContent: recordContent,
	}
}
