package services

import (
	"strconv"
	"strings"

	"github.com/liamoar/CloudKitchen-sub001/models"
)

const (
	// OrdersPageSize is the fixed page size for the order list
	OrdersPageSize = 10
	// MaxPageButtons caps the page-number window shown by the dashboard
	MaxPageButtons = 5
)

// Status filter keywords accepted alongside exact status values
const (
	FilterAll    = "all"
	FilterActive = "active" // everything except DELIVERED, CANCELLED, RETURNED
	FilterNew    = "new"    // PENDING only
)

// FilterOrders applies the status filter then the free-text search, in that
// order, and returns the matching views.
func FilterOrders(views []OrderView, statusFilter, search string) []OrderView {
	out := make([]OrderView, 0, len(views))
	for _, v := range views {
		if !matchesStatusFilter(v.Status, statusFilter) {
			continue
		}
		if !matchesSearch(v, search) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func matchesStatusFilter(s models.OrderStatus, filter string) bool {
	switch filter {
	case "", FilterAll:
		return true
	case FilterActive:
		return !s.IsTerminal()
	case FilterNew:
		return s == models.StatusPending
	default:
		return s == models.OrderStatus(filter)
	}
}

// matchesSearch does a case-insensitive substring match against phone number,
// order id, delivery address and customer name. Any one match is sufficient.
func matchesSearch(v OrderView, search string) bool {
	if search == "" {
		return true
	}
	term := strings.ToLower(search)
	candidates := []string{
		v.PhoneNumber,
		strconv.FormatUint(uint64(v.ID), 10),
		v.DeliveryAddress,
		v.CustomerName,
	}
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c), term) {
			return true
		}
	}
	return false
}

// Paginate returns the half-open window [lo, hi) for the given 1-based page
// over n items. Pages out of range yield an empty window.
func Paginate(n, page, size int) (lo, hi int) {
	if page < 1 || size < 1 {
		return 0, 0
	}
	lo = (page - 1) * size
	if lo >= n {
		return n, n
	}
	hi = lo + size
	if hi > n {
		hi = n
	}
	return lo, hi
}

// TotalPages returns the number of pages needed for n items
func TotalPages(n, size int) int {
	if n <= 0 || size < 1 {
		return 1
	}
	return (n + size - 1) / size
}

// PageWindow returns up to MaxPageButtons page numbers anchored near current,
// sliding at the sequence boundaries.
func PageWindow(current, totalPages int) []int {
	if totalPages < 1 {
		totalPages = 1
	}
	if current < 1 {
		current = 1
	}
	if current > totalPages {
		current = totalPages
	}

	start := current - MaxPageButtons/2
	if start < 1 {
		start = 1
	}
	end := start + MaxPageButtons - 1
	if end > totalPages {
		end = totalPages
		start = end - MaxPageButtons + 1
		if start < 1 {
			start = 1
		}
	}

	window := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		window = append(window, p)
	}
	return window
}
