package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"skincompass/internal/cache"
	"skincompass/internal/feeds"
	"skincompass/internal/pricing"
)

var (
	apiURL    = flag.String("api", "https://api.skincompass.local", "comparison API base URL")
	steamID   = flag.String("steamid", "", "steam id for authenticated (full-tier) results")
	namesFile = flag.String("names", "", "file with one canonical item name per line")
	output    = flag.String("output", "price_report.xlsx", "output XLSX path")
)

func main() {
	flag.Parse()

	names, err := readNames()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if len(names) == 0 {
		fmt.Fprintln(os.Stderr, "no item names given: pass -names <file> or names as arguments")
		os.Exit(1)
	}

	comparisons := cache.NewComparisonCache(feeds.NewComparisonClient(*apiURL))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Comparison"
	f.SetSheetName("Sheet1", sheet)
	headers := []string{"Item", "Source", "Listing (ask)", "Order (bid)"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheet, col+"1", h)
	}

	row := 2
	for _, name := range names {
		result, err := comparisons.GetOrFetch(ctx, name, *steamID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %q: %v\n", name, err)
			continue
		}
		for _, source := range sortedSources(result.Data) {
			quote := result.Data[source]
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), name)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), string(source))
			if quote.Listing != nil {
				v, _ := quote.Listing.Float64()
				f.SetCellValue(sheet, fmt.Sprintf("C%d", row), v)
			}
			if quote.Order != nil {
				v, _ := quote.Order.Float64()
				f.SetCellValue(sheet, fmt.Sprintf("D%d", row), v)
			}
			row++
		}
	}

	if err := f.SaveAs(*output); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", *output, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %d rows to %s\n", row-2, *output)
}

func readNames() ([]string, error) {
	names := append([]string{}, flag.Args()...)
	if *namesFile == "" {
		return names, nil
	}
	file, err := os.Open(*namesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open names file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			names = append(names, line)
		}
	}
	return names, scanner.Err()
}

func sortedSources(data map[pricing.MarketSource]pricing.PriceQuote) []pricing.MarketSource {
	sources := make([]pricing.MarketSource, 0, len(data))
	for s := range data {
		sources = append(sources, s)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i] < sources[j] })
	return sources
}
