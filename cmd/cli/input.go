package main

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kosarica/invite-service/internal/customers"
	"github.com/kosarica/invite-service/internal/geodesy"
)

// inputFlags are shared by the commands that read a customer file.
type inputFlags struct {
	format   string
	encoding string
	sheet    string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.format, "format", "", "Input format: jsonl, csv or xlsx (default: from file extension)")
	cmd.Flags().StringVar(&f.encoding, "encoding", "auto", "Text encoding: auto, utf-8, windows-1252 or iso-8859-1")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "Worksheet name for xlsx input (default: first sheet)")
}

// readCustomers reads path, or stdin when path is "-".
func readCustomers(path string, f inputFlags) (*customers.ReadResult, error) {
	opts := customers.ReadOptions{Sheet: f.sheet}

	if f.format != "" {
		format, err := customers.ParseFormat(f.format)
		if err != nil {
			return nil, err
		}
		opts.Format = format
	}

	enc, err := customers.ParseEncoding(f.encoding)
	if err != nil {
		return nil, err
	}
	opts.Encoding = enc

	var result *customers.ReadResult
	if path == "-" {
		result, err = customers.Read(os.Stdin, opts)
	} else {
		result, err = customers.ReadFile(path, opts)
	}
	if err != nil {
		return nil, err
	}

	if len(result.Skipped) > 0 {
		logger.Warn().
			Str("file", path).
			Int("skipped", len(result.Skipped)).
			Int("total", result.TotalRows).
			Msg("Ignored malformed customer records")
		for _, rowErr := range result.Skipped {
			logger.Debug().Int("row", rowErr.Row).Str("field", rowErr.Field).Msg(rowErr.Message)
		}
	}

	return result, nil
}

// originFlags override the configured reference point.
type originFlags struct {
	lat float64
	lon float64
}

func (f *originFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.lat, "lat", 0, "Reference latitude (overrides config; requires --lon)")
	cmd.Flags().Float64Var(&f.lon, "lon", 0, "Reference longitude (overrides config; requires --lat)")
	cmd.MarkFlagsRequiredTogether("lat", "lon")
}

func (f *originFlags) origin(cmd *cobra.Command) (*geodesy.Coordinate, error) {
	if !cmd.Flags().Changed("lat") {
		return nil, nil
	}
	c := geodesy.Coordinate{Latitude: f.lat, Longitude: f.lon}
	if err := checkCoordinate(c); err != nil {
		return nil, err
	}
	return &c, nil
}

// parseCoordinate parses "lat,lon".
func parseCoordinate(s string) (geodesy.Coordinate, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geodesy.Coordinate{}, fmt.Errorf("invalid coordinate %q (want lat,lon)", s)
	}
	return parseLatLon(parts[0], parts[1])
}

func parseLatLon(latStr, lonStr string) (geodesy.Coordinate, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return geodesy.Coordinate{}, fmt.Errorf("invalid latitude %q", latStr)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return geodesy.Coordinate{}, fmt.Errorf("invalid longitude %q", lonStr)
	}
	c := geodesy.Coordinate{Latitude: lat, Longitude: lon}
	return c, checkCoordinate(c)
}

func checkCoordinate(c geodesy.Coordinate) error {
	if math.IsNaN(c.Latitude) || math.Abs(c.Latitude) > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", c.Latitude)
	}
	if math.IsNaN(c.Longitude) || math.Abs(c.Longitude) > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", c.Longitude)
	}
	return nil
}
