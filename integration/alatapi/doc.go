// Package alatapi is the typed client for the equipment-maintenance
// backend: authentication, equipment ("alat") listing and public QR-code
// lookup, maintenance records ("pemeliharaan"), staff, dashboard summary,
// and reminder emails.
//
// The client attaches the current bearer token from the session store to
// every authenticated request. When such a request is rejected with 401,
// the store's logout policy is applied: the rejection is ignored while the
// refresh-protection window is active, and clears the session otherwise.
// Transport-level failures (timeouts, refused connections) are
// inconclusive and never clear the session.
//
//	backend, _ := kvs.NewFile(statePath)
//	sessions := session.New(backend)
//	client, err := alatapi.New(alatapi.Config{BaseURL: apiURL}, sessions)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	resp, err := client.Login(ctx, "budi", "rahasia")
//	if err == nil {
//		err = sessions.Save(ctx, resp.Token, resp.User, sessions.ResolveTTL(resp.Token, resp.TTLSeconds))
//	}
package alatapi
