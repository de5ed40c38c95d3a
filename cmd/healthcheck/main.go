package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"banking-web-prototype/core"
)

// One-shot backend connectivity probe. Exits 0 when the backend answers,
// 1 otherwise; prints the probe Result as JSON for scripts.
func main() {
	cfg := core.Load()
	api := core.NewBankingAPI(core.NewBackendClient(cfg))

	result := api.TestConnection(context.Background())

	out, _ := json.Marshal(result)
	fmt.Println(string(out))

	if !result.OK {
		os.Exit(1)
	}
}
