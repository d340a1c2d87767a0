package cmd

import (
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/mdp/qrterminal/v3"
	"github.com/spf13/cobra"

	"github.com/aravindadityxa/nayamai/app"
	"github.com/aravindadityxa/nayamai/assistant"
	"github.com/aravindadityxa/nayamai/locale"
)

func newNearbyCmd(opts *rootOptions) *cobra.Command {
	var (
		lat, lon float64
		qr       bool
	)
	cmd := &cobra.Command{
		Use:   "nearby",
		Short: "List hospitals near a position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(a *app.App) error {
				var (
					result assistant.Nearby
					err    error
				)
				if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon") {
					result, err = a.Assistant.NearbyAt(cmd.Context(), assistant.Location{Latitude: lat, Longitude: lon})
				} else {
					result, err = a.Assistant.Nearby(cmd.Context())
				}
				if err != nil {
					return report(cmd, err, a.Language())
				}

				w := cmd.OutOrStdout()
				printHospitals(w, paletteFor(a.Settings.Get().Theme), locale.For(a.Language()), result)
				if qr && len(result.Hospitals) > 0 {
					h := result.Hospitals[0]
					qrterminal.GenerateHalfBlock(mapURL(h.Lat, h.Lon), qrterminal.L, w)
				}
				return nil
			})
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in decimal degrees")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude in decimal degrees")
	cmd.Flags().BoolVar(&qr, "qr", false, "print a QR code linking to the nearest hospital's map")
	return cmd
}

func printHospitals(w io.Writer, p palette, s locale.Strings, result assistant.Nearby) {
	fmt.Fprintln(w, p.title.Render(s.HospitalsTitle))
	fmt.Fprintln(w, p.dim.Render(fmt.Sprintf("%s: %.4f, %.4f", s.YourLocation, result.Location.Latitude, result.Location.Longitude)))
	if len(result.Hospitals) == 0 {
		fmt.Fprintln(w, "No hospitals found nearby")
		return
	}
	for i, h := range result.Hospitals {
		fmt.Fprintf(w, "%2d. %s\n", i+1, p.assistant.Render(h.Name))
		if h.Address != "" {
			fmt.Fprintf(w, "    %s\n", h.Address)
		}
		if h.Phone != "" {
			fmt.Fprintf(w, "    %s\n", h.Phone)
		}
		fmt.Fprintf(w, "    %s\n", p.dim.Render(mapURL(h.Lat, h.Lon)))
	}
}

// mapURL links to an OpenStreetMap view centered on the position.
func mapURL(lat, lon float64) string {
	la := strconv.FormatFloat(lat, 'f', 6, 64)
	lo := strconv.FormatFloat(lon, 'f', 6, 64)
	u := url.URL{
		Scheme:   "https",
		Host:     "www.openstreetmap.org",
		Path:     "/",
		RawQuery: url.Values{"mlat": {la}, "mlon": {lo}}.Encode(),
		Fragment: "map=17/" + la + "/" + lo,
	}
	return u.String()
}
