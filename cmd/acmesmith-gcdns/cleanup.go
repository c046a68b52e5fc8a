package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup <domain>",
	Short: "Remove a previously published challenge value, preserving unrelated values at the same name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		responder, err := buildResponder(cmd.Context())
		if err != nil {
			logrus.WithError(err).Error("initialization failed")
			return err
		}

		if err := responder.Cleanup(cmd.Context(), args[0], challengeFromFlags()); err != nil {
			logrus.WithError(err).WithField("domain", args[0]).Error("cleanup failed")
			return err
		}
		return nil
	},
}
