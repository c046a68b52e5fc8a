package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var respondCmd = &cobra.Command{
	Use:   "respond <domain>",
	Short: "Publish a challenge TXT record and wait until it is resolvable on all authoritative nameservers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		responder, err := buildResponder(cmd.Context())
		if err != nil {
			logrus.WithError(err).Error("initialization failed")
			return err
		}

		if err := responder.Respond(cmd.Context(), args[0], challengeFromFlags()); err != nil {
			logrus.WithError(err).WithField("domain", args[0]).Error("respond failed")
			return err
		}
		return nil
	},
}
