// README: Command-line quote: optional mileage lookup, breakdown, WhatsApp message and link.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"removals/internal/config"
	"removals/internal/maps"
	"removals/internal/modules/lead"
	"removals/internal/modules/pricing"
	"removals/internal/modules/route"
	"removals/internal/types"
)

func main() {
	var (
		van         = flag.String("van", "small", "van size: small, medium, large")
		loaders     = flag.Int("loaders", 0, "number of loaders (0-3)")
		hours       = flag.Float64("hours", 2, "requested hours (1-12)")
		miles       = flag.Float64("miles", 0, "distance in miles; ignored when -pickup and -destination are set")
		pickup      = flag.String("pickup", "", "pickup address")
		destination = flag.String("destination", "", "destination address")
		stops       = flag.String("stops", "", "comma-separated intermediate stops")
		name        = flag.String("name", "", "customer name")
		phone       = flag.String("phone", "", "customer phone")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	req := pricing.QuoteRequest{
		VanSize:        pricing.VanSize(*van),
		LoaderCount:    *loaders,
		RequestedHours: *hours,
		Miles:          *miles,
	}

	if *pickup != "" && *destination != "" {
		if cfg.Maps.APIKey == "" {
			log.Fatal("GOOGLE_MAPS_API_KEY environment variable not set")
		}
		provider, err := maps.NewRouteService(cfg.Maps.APIKey, cfg.Maps.Country)
		if err != nil {
			log.Fatalf("Failed to initialize maps client: %v", err)
		}
		resolver := route.NewService(provider, provider, nil, route.Config{MaxStops: cfg.Maps.MaxStops}, nil)

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		res, err := resolver.Resolve(ctx, route.Request{
			Pickup:      *pickup,
			Destination: *destination,
			Stops:       strings.Split(*stops, ","),
		})
		if err != nil {
			log.Fatal(route.StatusMessage(err, resolver.MaxStops()))
		}
		fmt.Println(res.Status())
		req.Miles = res.Miles
	}

	if err := pricing.Validate(req); err != nil {
		log.Fatal(err)
	}

	b := pricing.Calculate(req)
	fmt.Printf("Total: %s\n\n", types.FormatGBP(b.Total))

	details := lead.Details{Name: *name, Phone: *phone, PickupAddress: *pickup, DropoffAddress: *destination}
	text, link := lead.Link(req, details, cfg.Business)
	fmt.Println(text)
	fmt.Printf("\n%s\n", link)
}
