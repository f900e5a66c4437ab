package cmd

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"energy-cli/internal/bridge"
	"energy-cli/internal/client"
	"energy-cli/pkg/models"
)

var (
	bridgeBroker string
	bridgeTopic  string
	bridgeQoS    int
	bridgeUser   string
	bridgePass   string
)

var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Forward MQTT device readings to the energy API",
	Long: `Subscribes to device readings on an MQTT broker and pushes each one to
the report endpoint. Topics look like energy/<deviceId>/reading; the payload is
the JSON reading (deviceId and collectTime may be omitted).`,
	Example: `  energy-cli bridge --broker tcp://localhost:1883 --username device --password pw`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		ctx := cmd.Context()

		api := daemonClient(a)
		if _, err := api.Login(ctx, models.LoginForm{Username: bridgeUser, Password: bridgePass}); err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		opts := mqtt.NewClientOptions().
			AddBroker(bridgeBroker).
			SetClientID("energy-cli-bridge-" + uuid.NewString()[:8]).
			SetAutoReconnect(true).
			SetConnectTimeout(10 * time.Second)

		mc := mqtt.NewClient(opts)
		token := mc.Connect()
		token.Wait()
		if err := token.Error(); err != nil {
			return fmt.Errorf("connect %s: %w", bridgeBroker, err)
		}
		defer mc.Disconnect(250)

		a.logger.Info("bridge connected", "broker", bridgeBroker)

		b := &bridge.Bridge{Reporter: &reloginReporter{api: api, login: models.LoginForm{Username: bridgeUser, Password: bridgePass}}, Logger: a.logger}
		return b.Run(ctx, mc, bridgeTopic, byte(bridgeQoS))
	},
}

func init() {
	rootCmd.AddCommand(bridgeCmd)
	bridgeCmd.Flags().StringVar(&bridgeBroker, "broker", "tcp://localhost:1883", "MQTT broker URL")
	bridgeCmd.Flags().StringVar(&bridgeTopic, "topic", bridge.DefaultTopic, "Topic filter to subscribe to")
	bridgeCmd.Flags().IntVar(&bridgeQoS, "qos", 1, "Subscription QoS (0, 1 or 2)")
	bridgeCmd.Flags().StringVar(&bridgeUser, "username", "admin", "API username")
	bridgeCmd.Flags().StringVar(&bridgePass, "password", "", "API password")
	_ = bridgeCmd.MarkFlagRequired("password")
}

// reloginReporter logs in again once when a report comes back unauthorized.
type reloginReporter struct {
	api   *client.EnergyClient
	login models.LoginForm
}

func (r *reloginReporter) ReportEnergy(ctx context.Context, rep models.EnergyReport) error {
	err := r.api.ReportEnergy(ctx, rep)
	if !client.IsAuthError(err) {
		return err
	}
	if _, lerr := r.api.Login(ctx, r.login); lerr != nil {
		return err
	}
	return r.api.ReportEnergy(ctx, rep)
}
