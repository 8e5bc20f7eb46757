package payment

import (
	"math"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/storefront/internal/domain"
	apperrors "github.com/openshelf/storefront/pkg/util"
)

func TestBuildUpiURIExample(t *testing.T) {
	got := BuildUpiURI("merchant@bank", "Book Store", 199.00, "Order #42", "ORD-42")
	assert.Equal(t,
		"upi://pay?pa=merchant%40bank&pn=Book%20Store&am=199&cu=INR&tn=Order%20%2342&tr=ORD-42",
		got.String())
}

func TestBuildUpiURIDeterministic(t *testing.T) {
	first := BuildUpiURI("shop@upi", "A & B", 10.5, "50% off", "ord/1")
	second := BuildUpiURI("shop@upi", "A & B", 10.5, "50% off", "ord/1")
	assert.Equal(t, first, second)
}

func TestBuildUpiURIFieldOrder(t *testing.T) {
	got := BuildUpiURI("a@b", "n", 1, "d", "o").String()
	require.True(t, strings.HasPrefix(got, Scheme))

	var keys []string
	for _, pair := range strings.Split(strings.TrimPrefix(got, Scheme), "&") {
		key, _, _ := strings.Cut(pair, "=")
		keys = append(keys, key)
	}
	assert.Equal(t, []string{"pa", "pn", "am", "cu", "tn", "tr"}, keys)
	assert.Contains(t, got, "&cu=INR&")
}

func TestBuildUpiURISpecialCharactersRoundTrip(t *testing.T) {
	values := []string{"A & B", "50% off", "Café Libro", "a=b&c=d", "x+y", "tab\there", "quote's (ok)!"}
	for _, v := range values {
		uri := BuildUpiURI("a@b", v, 1, v, "R-1").String()

		// No raw separators may leak out of an encoded field.
		body := strings.TrimPrefix(uri, Scheme)
		assert.Equal(t, 6, len(strings.Split(body, "&")), v)

		req, err := ParseUpiURI(uri)
		require.NoError(t, err, v)
		assert.Equal(t, v, req.PayeeName)
		assert.Equal(t, v, req.Description)
	}
}

func TestEncodeComponentMatchesBrowserRules(t *testing.T) {
	assert.Equal(t, "Book%20Store", EncodeComponent("Book Store"))
	assert.Equal(t, "merchant%40bank", EncodeComponent("merchant@bank"))
	assert.Equal(t, "50%25%20off", EncodeComponent("50% off"))
	assert.Equal(t, "A%20%26%20B", EncodeComponent("A & B"))
	assert.Equal(t, "-_.!~*'()", EncodeComponent("-_.!~*'()"))
	assert.Equal(t, "%2B%2F%3F%3D%23", EncodeComponent("+/?=#"))
	assert.Equal(t, "Caf%C3%A9", EncodeComponent("Café"))

	decoded, err := url.PathUnescape(EncodeComponent("a b/c?d"))
	require.NoError(t, err)
	assert.Equal(t, "a b/c?d", decoded)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "199", FormatAmount(199.00))
	assert.Equal(t, "12.5", FormatAmount(12.50))
	assert.Equal(t, "0.99", FormatAmount(0.99))
	assert.Equal(t, "-3", FormatAmount(-3))
}

func TestParseUpiURI(t *testing.T) {
	req, err := ParseUpiURI("upi://pay?pa=merchant%40bank&pn=Book%20Store&am=199&cu=INR&tn=Order%20%2342&tr=ORD-42")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentRequest{
		UpiID:       "merchant@bank",
		PayeeName:   "Book Store",
		Amount:      199,
		Description: "Order #42",
		OrderID:     "ORD-42",
	}, req)

	_, err = ParseUpiURI("https://example.com")
	assert.ErrorIs(t, err, ErrNotUpiURI)

	_, err = ParseUpiURI("upi://pay?pa=a%40b&am=ten")
	assert.Error(t, err)

	_, err = ParseUpiURI("upi://pay?pa=a%40b&cu=USD")
	assert.Error(t, err)
}

func TestURIUsesRequestFields(t *testing.T) {
	req := domain.PaymentRequest{UpiID: "m@b", PayeeName: "Shop", Amount: 5, Description: "d", OrderID: "o"}
	assert.Equal(t, BuildUpiURI("m@b", "Shop", 5, "d", "o"), URI(req))
}

func TestValidate(t *testing.T) {
	valid := domain.PaymentRequest{UpiID: "merchant@bank", PayeeName: "Book Store", Amount: 199, OrderID: "ORD-1"}
	assert.NoError(t, Validate(valid))

	withCents := valid
	withCents.Amount = 19.99
	assert.NoError(t, Validate(withCents))

	tests := map[string]func(r *domain.PaymentRequest){
		"upi_id":     func(r *domain.PaymentRequest) { r.UpiID = "merchant" },
		"payee_name": func(r *domain.PaymentRequest) { r.PayeeName = "  " },
		"amount":     func(r *domain.PaymentRequest) { r.Amount = 0 },
	}
	for field, mutate := range tests {
		req := valid
		mutate(&req)
		err := Validate(req)
		require.Error(t, err, field)

		domainErr := apperrors.ToDomainError(err)
		assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
		assert.Contains(t, domainErr.Details, field)
	}

	for _, amount := range []float64{-1, math.NaN(), math.Inf(1), 1.005} {
		req := valid
		req.Amount = amount
		assert.Error(t, Validate(req), "%v", amount)
	}

	for _, id := range []string{"@bank", "merchant@", "a@b@c"} {
		req := valid
		req.UpiID = id
		assert.Error(t, Validate(req), id)
	}
}
