package main

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/minimum2scp/acmesmith-google-cloud-dns/internal/dns"
	"github.com/minimum2scp/acmesmith-google-cloud-dns/internal/dns/providers/clouddns"
)

var zonesCmd = &cobra.Command{
	Use:   "zones [domain]",
	Short: "List managed zones, or resolve the zone owning a domain",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			logrus.WithError(err).Error("initialization failed")
			return err
		}

		client, err := clouddns.NewClient(cmd.Context(), cfg.Project, clouddns.AuthMethod(cfg.AuthMethod), cfg.ServiceAccountKeyFile)
		if err != nil {
			logrus.WithError(err).Error("initialization failed")
			return err
		}

		if len(args) == 1 {
			zone, err := dns.NewZoneResolver(client).Resolve(cmd.Context(), args[0])
			if err != nil {
				logrus.WithError(err).WithField("domain", args[0]).Error("zone lookup failed")
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", zone.Name, zone.DNSName, strings.Join(zone.Nameservers, ","))
			return nil
		}

		zones, err := client.ListZones(cmd.Context())
		if err != nil {
			logrus.WithError(err).Error("failed to list zones")
			return err
		}
		for _, zone := range zones {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", zone.Name, zone.DNSName, strings.Join(zone.Nameservers, ","))
		}
		return nil
	},
}
