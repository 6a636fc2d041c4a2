package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

type LogStats struct {
	TotalErrors        int
	LoginSuccess       int
	LoginFailures      int
	CheckoutsInitiated int
	Fulfillments       int
	FulfillmentRaces   int
	GatewayFailures    int
	BadSignatures      int
	ReferenceActivity  map[string]int
	ErrorPatterns      map[string]int
}

func main() {
	today := time.Now().Format("2006-01-02")
	logDir := "./logs"

	stats := &LogStats{
		ReferenceActivity: make(map[string]int),
		ErrorPatterns:     make(map[string]int),
	}

	analyzeErrorLogs(filepath.Join(logDir, fmt.Sprintf("error-%s.log", today)), stats)
	analyzeInfoLogs(filepath.Join(logDir, fmt.Sprintf("info-%s.log", today)), stats)

	printReport(stats)
}

func analyzeErrorLogs(logFile string, stats *LogStats) {
	file, err := os.Open(logFile)
	if err != nil {
		fmt.Printf("Error opening log file %s: %v\n", logFile, err)
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		stats.TotalErrors++

		if strings.Contains(line, "Wrong password") || strings.Contains(line, "Login for unknown email") {
			stats.LoginFailures++
		}
		if strings.Contains(line, "Gateway verify failed") || strings.Contains(line, "Gateway reports status") {
			stats.GatewayFailures++
			extractReference(line, stats)
		}
		if strings.Contains(line, "Webhook signature verification failed") {
			stats.BadSignatures++
		}

		extractErrorPattern(line, stats)
	}
}

func analyzeInfoLogs(logFile string, stats *LogStats) {
	file, err := os.Open(logFile)
	if err != nil {
		fmt.Printf("Error opening log file %s: %v\n", logFile, err)
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()

		if strings.Contains(line, "User logged in") {
			stats.LoginSuccess++
		}
		if strings.Contains(line, "Processing checkout initiation") {
			stats.CheckoutsInitiated++
		}
		if strings.Contains(line, "Fulfilled reference") {
			stats.Fulfillments++
			extractReference(line, stats)
		}
		if strings.Contains(line, "Lost fulfillment race") {
			stats.FulfillmentRaces++
			extractReference(line, stats)
		}
	}
}

func extractReference(line string, stats *LogStats) {
	refRegex := regexp.MustCompile(`(PTQ|FREE)-[0-9a-fA-F-]+`)
	if ref := refRegex.FindString(line); ref != "" {
		stats.ReferenceActivity[ref]++
	}
}

func extractErrorPattern(line string, stats *LogStats) {
	parts := strings.Split(line, ":")
	if len(parts) > 1 {
		errorMsg := strings.TrimSpace(parts[1])
		stats.ErrorPatterns[errorMsg]++
	}
}

func printReport(stats *LogStats) {
	fmt.Println("\n=== Log Analysis Report ===")
	fmt.Println("Generated:", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Println("\n1. Authentication Statistics:")
	fmt.Printf("   Successful Logins: %d\n", stats.LoginSuccess)
	fmt.Printf("   Failed Logins: %d\n", stats.LoginFailures)

	fmt.Println("\n2. Payment Statistics:")
	fmt.Printf("   Checkouts Initiated: %d\n", stats.CheckoutsInitiated)
	fmt.Printf("   Fulfillments: %d\n", stats.Fulfillments)
	fmt.Printf("   Fulfillment Races Resolved: %d\n", stats.FulfillmentRaces)
	fmt.Printf("   Gateway Failures: %d\n", stats.GatewayFailures)
	fmt.Printf("   Bad Webhook Signatures: %d\n", stats.BadSignatures)

	fmt.Println("\n3. Error Statistics:")
	fmt.Printf("   Total Errors: %d\n", stats.TotalErrors)

	fmt.Println("\n4. Busiest References:")
	printTopReferences(stats.ReferenceActivity, 5)

	fmt.Println("\n5. Most Common Errors:")
	printTopErrors(stats.ErrorPatterns, 5)
}

func printTopReferences(refs map[string]int, limit int) {
	type refActivity struct {
		reference string
		count     int
	}

	var activities []refActivity
	for reference, count := range refs {
		activities = append(activities, refActivity{reference, count})
	}

	sort.Slice(activities, func(i, j int) bool {
		return activities[i].count > activities[j].count
	})

	for i, activity := range activities {
		if i >= limit {
			break
		}
		fmt.Printf("   %s: %d entries\n", activity.reference, activity.count)
	}
}

func printTopErrors(errors map[string]int, limit int) {
	type errorCount struct {
		error string
		count int
	}

	var errorList []errorCount
	for err, count := range errors {
		errorList = append(errorList, errorCount{err, count})
	}

	sort.Slice(errorList, func(i, j int) bool {
		return errorList[i].count > errorList[j].count
	})

	for i, err := range errorList {
		if i >= limit {
			break
		}
		fmt.Printf("   %s: %d occurrences\n", err.error, err.count)
	}
}
