package orders

import "github.com/Sanjay-2k-5/FarmToHome/pkg/enums"

// transitionTable is the single source of truth for the order lifecycle.
// Absent edges are rejected even when both statuses are valid vocabulary.
var transitionTable = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending: {
		enums.OrderStatusAccepted,
		enums.OrderStatusRejected,
		enums.OrderStatusCancelled,
	},
	enums.OrderStatusAccepted: {
		enums.OrderStatusProcessing,
		enums.OrderStatusShipped,
		enums.OrderStatusCancelled,
	},
	enums.OrderStatusProcessing: {
		enums.OrderStatusShipped,
		enums.OrderStatusCancelled,
	},
	enums.OrderStatusShipped: {
		enums.OrderStatusDelivered,
	},
}

// canTransition reports whether the lifecycle graph has a from->to edge.
func canTransition(from, to enums.OrderStatus) bool {
	for _, candidate := range transitionTable[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// deliveryTargets is the subset of statuses delivery agents may request.
var deliveryTargets = []enums.OrderStatus{
	enums.OrderStatusProcessing,
	enums.OrderStatusShipped,
	enums.OrderStatusDelivered,
}

// roleMayRequest gates target statuses by actor role. Farmers and admins may
// request anything in the vocabulary; the graph still decides legality.
func roleMayRequest(role enums.UserRole, target enums.OrderStatus) bool {
	switch role {
	case enums.UserRoleFarmer, enums.UserRoleAdmin:
		return true
	case enums.UserRoleDelivery:
		for _, candidate := range deliveryTargets {
			if candidate == target {
				return true
			}
		}
		return false
	case enums.UserRoleConsumer:
		return target == enums.OrderStatusCancelled
	default:
		return false
	}
}
