package pubsub

import (
	"github.com/chro-network/chro-marketplace/internal/core/domain"
)

func getItemPayload(item domain.Item) map[string]interface{} {
	payload := map[string]interface{}{
		"id":              item.ID,
		"seller":          item.Seller,
		"collection":      item.Collection,
		"asset_id":        item.AssetID,
		"kind":            item.Kind.String(),
		"price":           item.Price,
		"status":          item.Status.String(),
		"publication_fee": item.PublicationFee,
	}
	if item.IsAuction() {
		payload["expiry"] = item.Expiry
		payload["bid_count"] = item.BidCount
		if item.HasBids() {
			payload["highest_bid"] = map[string]interface{}{
				"index":  item.HighestBid.Index,
				"bidder": item.HighestBid.Bidder,
				"amount": item.HighestBid.Amount,
			}
		}
	}
	if len(item.Buyer) > 0 {
		payload["buyer"] = item.Buyer
		payload["sale_price"] = item.SalePrice
	}
	return payload
}

func getBidPayload(bid domain.Bid) map[string]interface{} {
	return map[string]interface{}{
		"item_id":   bid.ItemID,
		"index":     bid.Index,
		"bidder":    bid.Bidder,
		"amount":    bid.Amount,
		"timestamp": bid.Timestamp,
	}
}

func getSwapPayload(swap domain.Swap) map[string]interface{} {
	side := func(a domain.SwapAsset) map[string]interface{} {
		return map[string]interface{}{
			"collection": a.Collection,
			"asset_id":   a.AssetID,
			"holder":     a.Holder,
		}
	}
	return map[string]interface{}{
		"id":        swap.ID,
		"offered":   side(swap.Offered),
		"requested": side(swap.Requested),
		"status":    swap.Status.String(),
	}
}

func getDistributionPayload(d domain.Distribution) map[string]interface{} {
	shares := make([]map[string]interface{}, 0, len(d.Shares))
	for _, s := range d.Shares {
		shares = append(shares, map[string]interface{}{
			"wallet": s.Wallet,
			"amount": s.Amount,
		})
	}
	payload := map[string]interface{}{
		"gross":      d.Gross,
		"seller_net": d.SellerNet,
		"fees":       shares,
	}
	if len(d.Royalty.Receiver) > 0 {
		payload["royalty"] = map[string]interface{}{
			"receiver": d.Royalty.Receiver,
			"amount":   d.Royalty.Amount,
		}
	}
	return payload
}

func getFeePolicyPayload(p domain.FeePolicy) map[string]interface{} {
	collectors := make([]map[string]interface{}, 0, len(p.Collectors))
	for _, c := range p.Collectors {
		collectors = append(collectors, map[string]interface{}{
			"wallet":     c.Wallet,
			"percentage": c.Percentage,
		})
	}
	fees := make(map[string]uint64)
	for kind, amount := range p.PublicationFees {
		fees[kind.String()] = amount
	}
	return map[string]interface{}{
		"scale":                  p.Scale,
		"collectors":             collectors,
		"publication_fees":       fees,
		"publication_fee_wallet": p.PublicationFeeWallet,
	}
}
