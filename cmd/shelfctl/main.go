// Command shelfctl builds UPI payment links and their QR codes offline.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openshelf/storefront/internal/config"
	"github.com/openshelf/storefront/internal/domain"
	"github.com/openshelf/storefront/internal/payment"
	"github.com/openshelf/storefront/internal/qr"
)

type paymentFlags struct {
	upiID       string
	payeeName   string
	amount      float64
	description string
	orderID     string
}

func (f *paymentFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.upiID, "upi-id", "", "payee VPA, e.g. shop@bank")
	cmd.Flags().StringVar(&f.payeeName, "name", "", "payee display name")
	cmd.Flags().Float64Var(&f.amount, "amount", 0, "amount in INR")
	cmd.Flags().StringVar(&f.description, "note", "", "transaction note")
	cmd.Flags().StringVar(&f.orderID, "order", "", "order reference")
}

func (f *paymentFlags) request() (domain.PaymentRequest, error) {
	req := domain.PaymentRequest{
		UpiID:       f.upiID,
		PayeeName:   f.payeeName,
		Amount:      f.amount,
		Description: f.description,
		OrderID:     f.orderID,
	}
	return req, payment.Validate(req)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "shelfctl",
		Short:         "OpenShelf storefront operator tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newUpiCmd(), newQRCmd(), newDecodeCmd())
	return root
}

func newUpiCmd() *cobra.Command {
	var flags paymentFlags
	cmd := &cobra.Command{
		Use:   "upi",
		Short: "Print a upi://pay link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := flags.request()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), payment.URI(req))
			return err
		},
	}
	flags.register(cmd)
	return cmd
}

func newQRCmd() *cobra.Command {
	var (
		flags      paymentFlags
		strategy   string
		hostedBase string
		out        string
	)
	cmd := &cobra.Command{
		Use:   "qr",
		Short: "Render the QR code of a UPI link",
		Long: `Renders the payment link with the chosen strategy (hosted, svg, dataurl).
With --out the image is written to a file; hosted codes cannot be saved.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := flags.request()
			if err != nil {
				return err
			}
			s, err := qr.ParseStrategy(strategy)
			if err != nil {
				return err
			}
			renderer, err := qr.New(s, hostedBase)
			if err != nil {
				return err
			}

			ref, err := renderer.Render(context.Background(), payment.URI(req).String())
			if err != nil {
				return fmt.Errorf("render qr: %w", err)
			}

			if out == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), ref.Value)
				return err
			}

			body, err := ref.Bytes()
			if errors.Is(err, qr.ErrRemoteImage) {
				return fmt.Errorf("hosted codes cannot be written to a file; open %s", ref.Value)
			}
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, body, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s, %d bytes)\n", out, ref.ContentType, len(body))
			return err
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&strategy, "strategy", string(qr.StrategySVG), "hosted, svg or dataurl")
	cmd.Flags().StringVar(&hostedBase, "hosted-base", config.DefaultHostedQRBaseURL, "image service for the hosted strategy")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the image to this file")
	return cmd
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <upi-uri>",
		Short: "Print the fields of a upi://pay link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := payment.ParseUpiURI(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "upi_id:      %s\n", req.UpiID)
			fmt.Fprintf(w, "payee_name:  %s\n", req.PayeeName)
			fmt.Fprintf(w, "amount:      %s\n", payment.FormatAmount(req.Amount))
			fmt.Fprintf(w, "description: %s\n", req.Description)
			fmt.Fprintf(w, "order_id:    %s\n", req.OrderID)
			return nil
		},
	}
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync() //nolint:errcheck

	if err := newRootCmd().Execute(); err != nil {
		logger.Error("shelfctl failed", zap.Error(err))
		os.Exit(1)
	}
}
