package asset

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/movekit/aptos-fa-sdk-go/pkg/account"
	"github.com/movekit/aptos-fa-sdk-go/pkg/chain"
)

type viewCall struct {
	Function      string   `json:"function"`
	TypeArguments []string `json:"type_arguments"`
	Arguments     []any    `json:"arguments"`
}

// fakeNode is a minimal fullnode stub. View results are keyed by
// function identifier; submitted transactions are decoded from BCS and
// recorded, then confirmed as successful on first poll.
type fakeNode struct {
	mutex       sync.Mutex
	viewResults map[string][]any
	viewCalls   map[string]int
	submissions []*chain.SignedTransaction
}

func newFakeNode() *fakeNode {
	return &fakeNode{
		viewResults: make(map[string][]any),
		viewCalls:   make(map[string]int),
	}
}

func (node *fakeNode) setView(function string, values ...any) {
	node.mutex.Lock()
	defer node.mutex.Unlock()
	node.viewResults[function] = values
}

func (node *fakeNode) callCount(function string) int {
	node.mutex.Lock()
	defer node.mutex.Unlock()
	return node.viewCalls[function]
}

func (node *fakeNode) lastSubmission(t *testing.T) *chain.SignedTransaction {
	t.Helper()
	node.mutex.Lock()
	defer node.mutex.Unlock()
	if len(node.submissions) == 0 {
		t.Fatal("no transaction was submitted")
	}
	return node.submissions[len(node.submissions)-1]
}

func (node *fakeNode) handler(t *testing.T) http.Handler {
	success := true
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch {
		case request.Method == http.MethodGet && request.URL.Path == "/":
			json.NewEncoder(writer).Encode(map[string]any{"chain_id": 4})
		case request.Method == http.MethodGet && strings.HasPrefix(request.URL.Path, "/accounts/"):
			json.NewEncoder(writer).Encode(map[string]any{"sequence_number": "0"})
		case request.Method == http.MethodPost && request.URL.Path == "/view":
			var call viewCall
			if err := json.NewDecoder(request.Body).Decode(&call); err != nil {
				t.Errorf("bad view request: %v", err)
				return
			}
			node.mutex.Lock()
			node.viewCalls[call.Function]++
			values, known := node.viewResults[call.Function]
			node.mutex.Unlock()
			if !known {
				http.Error(writer, "unknown view", http.StatusBadRequest)
				return
			}
			json.NewEncoder(writer).Encode(values)
		case request.Method == http.MethodPost && request.URL.Path == "/transactions":
			body, err := io.ReadAll(request.Body)
			if err != nil {
				t.Errorf("failed to read submission: %v", err)
				return
			}
			signed, err := chain.DeserializeSignedTransaction(body)
			if err != nil {
				t.Errorf("failed to decode submission: %v", err)
				http.Error(writer, "bad transaction", http.StatusBadRequest)
				return
			}
			node.mutex.Lock()
			node.submissions = append(node.submissions, signed)
			node.mutex.Unlock()
			writer.WriteHeader(http.StatusAccepted)
			json.NewEncoder(writer).Encode(map[string]any{"hash": "0x1234"})
		case request.Method == http.MethodGet && strings.HasPrefix(request.URL.Path, "/transactions/by_hash/"):
			json.NewEncoder(writer).Encode(map[string]any{
				"type": "user_transaction", "hash": "0x1234",
				"success": success, "vm_status": "Executed successfully",
			})
		default:
			http.NotFound(writer, request)
		}
	})
}

func newTestAsset(t *testing.T, node *fakeNode) (*ManagedClient, *account.Account) {
	t.Helper()

	server := httptest.NewServer(node.handler(t))
	t.Cleanup(server.Close)

	chainClient, err := chain.NewClient(chain.Config{NodeURL: server.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	owner, err := account.NewEd25519Account()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	client, err := NewManagedClient(Config{
		Chain:   chainClient,
		Creator: owner.Address(),
		Wait:    chain.WaitOptions{Timeout: time.Second, Interval: 10 * time.Millisecond},
	}, owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return client, owner
}

func metadataAddressForTest(t *testing.T) account.AccountAddress {
	t.Helper()
	return account.MustParseAddress("0x" + strings.Repeat("ab", 32))
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error for missing chain client")
	}
	if _, err := NewManagedClient(Config{}, nil); err == nil {
		t.Fatal("expected error for missing manager")
	}
}

func TestMetadataIsCached(t *testing.T) {
	node := newFakeNode()
	client, owner := newTestAsset(t, node)

	metadata := metadataAddressForTest(t)
	metadataFunction := owner.Address().String() + "::fa_coin::get_metadata"
	node.setView(metadataFunction, map[string]any{"inner": metadata.String()})

	for index := 0; index < 3; index++ {
		resolved, err := client.Metadata(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resolved != metadata {
			t.Fatalf("unexpected metadata address: %s", resolved)
		}
	}
	if node.callCount(metadataFunction) != 1 {
		t.Fatalf("expected a single metadata view, got %d", node.callCount(metadataFunction))
	}
}

func TestBalance(t *testing.T) {
	node := newFakeNode()
	client, owner := newTestAsset(t, node)

	metadata := metadataAddressForTest(t)
	node.setView(owner.Address().String()+"::fa_coin::get_metadata", metadata.String())
	node.setView("0x1::primary_fungible_store::balance", "250")

	holder, err := account.NewEd25519Account()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	balance, err := client.Balance(context.Background(), holder.Address())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance != 250 {
		t.Fatalf("unexpected balance: %d", balance)
	}
}

func TestIsFrozen(t *testing.T) {
	node := newFakeNode()
	client, owner := newTestAsset(t, node)

	node.setView(owner.Address().String()+"::fa_coin::get_metadata", metadataAddressForTest(t).String())
	node.setView("0x1::primary_fungible_store::is_frozen", true)

	frozen, err := client.IsFrozen(context.Background(), owner.Address())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !frozen {
		t.Fatal("expected frozen store")
	}
}

func TestTokenInfo(t *testing.T) {
	node := newFakeNode()
	client, owner := newTestAsset(t, node)

	metadata := metadataAddressForTest(t)
	node.setView(owner.Address().String()+"::fa_coin::get_metadata", metadata.String())
	node.setView("0x1::fungible_asset::name", "Movekit Coin")
	node.setView("0x1::fungible_asset::symbol", "MVK")
	node.setView("0x1::fungible_asset::decimals", float64(8))

	info, err := client.TokenInfo(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Metadata != metadata || info.Name != "Movekit Coin" || info.Symbol != "MVK" || info.Decimals != 8 {
		t.Fatalf("unexpected token info: %+v", info)
	}
}

func TestMintSubmitsEntryFunction(t *testing.T) {
	node := newFakeNode()
	client, owner := newTestAsset(t, node)

	recipient, err := account.NewEd25519Account()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	receipt, err := client.Mint(context.Background(), recipient.Address(), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !receipt.Success {
		t.Fatal("expected successful receipt")
	}

	payload := node.lastSubmission(t).Raw.Payload
	if string(payload.Function) != "mint" {
		t.Fatalf("unexpected function: %s", payload.Function)
	}
	if payload.Module.Address != owner.Address() || string(payload.Module.Name) != "fa_coin" {
		t.Fatalf("unexpected module: %s", payload.Module)
	}
	if len(payload.Args) != 2 {
		t.Fatalf("unexpected arg count: %d", len(payload.Args))
	}
	decodedRecipient, err := chain.DecodeAddressArg(payload.Args[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decodedRecipient != recipient.Address() {
		t.Fatalf("unexpected recipient: %s", decodedRecipient)
	}
	amount, err := chain.DecodeU64Arg(payload.Args[1])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amount != 100 {
		t.Fatalf("unexpected amount: %d", amount)
	}
}

func TestManagedTransferArgOrder(t *testing.T) {
	node := newFakeNode()
	client, _ := newTestAsset(t, node)

	from := account.MustParseAddress("0xa")
	to := account.MustParseAddress("0xb")

	if _, err := client.Transfer(context.Background(), from, to, 75); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payload := node.lastSubmission(t).Raw.Payload
	if string(payload.Function) != "transfer" {
		t.Fatalf("unexpected function: %s", payload.Function)
	}
	if len(payload.Args) != 3 {
		t.Fatalf("unexpected arg count: %d", len(payload.Args))
	}
	decodedFrom, _ := chain.DecodeAddressArg(payload.Args[0])
	decodedTo, _ := chain.DecodeAddressArg(payload.Args[1])
	amount, _ := chain.DecodeU64Arg(payload.Args[2])
	if decodedFrom != from || decodedTo != to || amount != 75 {
		t.Fatalf("unexpected args: %s %s %d", decodedFrom, decodedTo, amount)
	}
}

func TestFreezeAndUnfreezeFunctions(t *testing.T) {
	node := newFakeNode()
	client, _ := newTestAsset(t, node)

	target := account.MustParseAddress("0xc")

	if _, err := client.FreezeAccount(context.Background(), target); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name := string(node.lastSubmission(t).Raw.Payload.Function); name != "freeze_account" {
		t.Fatalf("unexpected function: %s", name)
	}

	if _, err := client.UnfreezeAccount(context.Background(), target); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name := string(node.lastSubmission(t).Raw.Payload.Function); name != "unfreeze_account" {
		t.Fatalf("unexpected function: %s", name)
	}
}

func TestHolderTransferUsesPrimaryStore(t *testing.T) {
	node := newFakeNode()
	client, owner := newTestAsset(t, node)

	metadata := metadataAddressForTest(t)
	node.setView(owner.Address().String()+"::fa_coin::get_metadata", metadata.String())

	holder, err := account.NewEd25519Account()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	recipient := account.MustParseAddress("0xd")

	if _, err := client.Client.Transfer(context.Background(), holder, recipient, 40); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	submitted := node.lastSubmission(t).Raw
	payload := submitted.Payload
	if submitted.Sender != holder.Address() {
		t.Fatalf("unexpected sender: %s", submitted.Sender)
	}
	if string(payload.Module.Name) != "primary_fungible_store" || string(payload.Function) != "transfer" {
		t.Fatalf("unexpected target: %s::%s", payload.Module, payload.Function)
	}
	if len(payload.TypeArgs) != 1 {
		t.Fatalf("unexpected type arg count: %d", len(payload.TypeArgs))
	}
	if len(payload.Args) != 3 {
		t.Fatalf("unexpected arg count: %d", len(payload.Args))
	}
	decodedMetadata, _ := chain.DecodeAddressArg(payload.Args[0])
	if decodedMetadata != metadata {
		t.Fatalf("unexpected metadata arg: %s", decodedMetadata)
	}
}

func TestWriteValidation(t *testing.T) {
	node := newFakeNode()
	client, _ := newTestAsset(t, node)

	target := account.MustParseAddress("0xe")

	var malformed chain.MalformedRequestError
	if _, err := client.Mint(context.Background(), target, 0); !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedRequestError for zero amount, got %v", err)
	}
	if _, err := client.Burn(context.Background(), account.AccountAddress{}, 10); !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedRequestError for zero address, got %v", err)
	}
	if _, err := client.Client.Transfer(context.Background(), nil, target, 10); !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedRequestError for nil sender, got %v", err)
	}
}
