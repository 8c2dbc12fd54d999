package cli

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wesleyorama2/courier/http"
	"github.com/wesleyorama2/courier/internal/output"
)

func newUploadCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload URL IMAGE",
		Short: "Upload an image as a multipart photo to the specified URL",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rawHeaders, _ := cmd.Flags().GetStringArray("header")
			headers, err := parseHeaders(rawHeaders)
			if err != nil {
				return err
			}

			img, err := readImage(args[1])
			if err != nil {
				return err
			}

			rt, err := newRuntime(cmd, v)
			if err != nil {
				return err
			}
			defer rt.Close()

			base, err := rt.client.NewRequest(http.MethodPost, args[0], http.WithHeaders(headers))
			if err != nil {
				return err
			}

			rt.ui.NotifyIndicator(true)
			pending, err := rt.client.UploadPhoto(cmd.Context(), base, img)
			if err != nil {
				rt.ui.NotifyIndicator(false)
				return err
			}
			result := <-pending
			rt.ui.NotifyIndicator(false)
			rt.ui.Close()

			fmt.Fprint(cmd.OutOrStdout(), rt.formatter.FormatOutcome(result, output.Annotations{}))
			return http.Err(result)
		},
	}

	cmd.Flags().StringArrayP("header", "H", []string{}, "HTTP headers to include (can be used multiple times)")

	return cmd
}

// readImage decodes a PNG, JPEG or GIF file.
func readImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("error decoding image %s: %w", path, err)
	}
	return img, nil
}
