package httpinterface

import (
	"github.com/chro-network/chro-marketplace/internal/core/application/marketplace"
	"github.com/chro-network/chro-marketplace/internal/core/application/pubsub"
	"github.com/chro-network/chro-marketplace/internal/core/domain"
)

type listForSaleRequest struct {
	Collection string `json:"collection"`
	AssetID    uint64 `json:"assetId"`
	Price      uint64 `json:"price"`
}

type listForAuctionRequest struct {
	Collection    string `json:"collection"`
	AssetID       uint64 `json:"assetId"`
	StartingPrice uint64 `json:"startingPrice"`
	Expiry        int64  `json:"expiry"`
}

type placeBidRequest struct {
	Amount uint64 `json:"amount"`
}

type requestSwapRequest struct {
	OfferedCollection   string `json:"offeredCollection"`
	OfferedAssetID      uint64 `json:"offeredAssetId"`
	RequestedCollection string `json:"requestedCollection"`
	RequestedAssetID    uint64 `json:"requestedAssetId"`
}

type createCollectionRequest struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Active  bool   `json:"active"`
}

type setCollectionActiveRequest struct {
	Active bool `json:"active"`
}

type addFeeCollectorRequest struct {
	Wallet     string `json:"wallet"`
	Percentage uint32 `json:"percentage"`
}

type walletRequest struct {
	Wallet string `json:"wallet"`
}

type amountRequest struct {
	Amount uint64 `json:"amount"`
}

type addWebhookRequest struct {
	Topic    string `json:"topic"`
	Endpoint string `json:"endpoint"`
	Secret   string `json:"secret,omitempty"`
}

type approvalRequest struct {
	Collection string `json:"collection"`
	Approved   bool   `json:"approved"`
}

type highestBidView struct {
	Index  int    `json:"index"`
	Bidder string `json:"bidder"`
	Amount uint64 `json:"amount"`
}

type itemView struct {
	ID             uint64          `json:"id"`
	Seller         string          `json:"seller"`
	Collection     string          `json:"collection"`
	AssetID        uint64          `json:"assetId"`
	Kind           string          `json:"kind"`
	Price          uint64          `json:"price"`
	Expiry         int64           `json:"expiry,omitempty"`
	Status         string          `json:"status"`
	PublicationFee uint64          `json:"publicationFee"`
	BidCount       int             `json:"bidCount"`
	HighestBid     *highestBidView `json:"highestBid,omitempty"`
	Buyer          string          `json:"buyer,omitempty"`
	SalePrice      uint64          `json:"salePrice,omitempty"`
	CreatedAt      int64           `json:"createdAt"`
	ClosedAt       int64           `json:"closedAt,omitempty"`
}

func toItemView(i domain.Item) itemView {
	v := itemView{
		ID:             i.ID,
		Seller:         i.Seller,
		Collection:     i.Collection,
		AssetID:        i.AssetID,
		Kind:           i.Kind.String(),
		Price:          i.Price,
		Expiry:         i.Expiry,
		Status:         i.Status.String(),
		PublicationFee: i.PublicationFee,
		BidCount:       i.BidCount,
		Buyer:          i.Buyer,
		SalePrice:      i.SalePrice,
		CreatedAt:      i.CreatedAt,
		ClosedAt:       i.ClosedAt,
	}
	if i.HasBids() {
		v.HighestBid = &highestBidView{
			i.HighestBid.Index, i.HighestBid.Bidder, i.HighestBid.Amount,
		}
	}
	return v
}

func toItemViews(items []domain.Item) []itemView {
	list := make([]itemView, 0, len(items))
	for _, i := range items {
		list = append(list, toItemView(i))
	}
	return list
}

type bidView struct {
	ItemID    uint64 `json:"itemId"`
	Index     int    `json:"index"`
	Bidder    string `json:"bidder"`
	Amount    uint64 `json:"amount"`
	Timestamp int64  `json:"timestamp"`
}

func toBidView(b domain.Bid) bidView {
	return bidView{b.ItemID, b.Index, b.Bidder, b.Amount, b.Timestamp}
}

func toBidViews(bids []domain.Bid) []bidView {
	list := make([]bidView, 0, len(bids))
	for _, b := range bids {
		list = append(list, toBidView(b))
	}
	return list
}

type swapAssetView struct {
	Collection string `json:"collection"`
	AssetID    uint64 `json:"assetId"`
	Holder     string `json:"holder"`
}

type swapView struct {
	ID        uint64        `json:"id"`
	Offered   swapAssetView `json:"offered"`
	Requested swapAssetView `json:"requested"`
	Status    string        `json:"status"`
	CreatedAt int64         `json:"createdAt"`
	ClosedAt  int64         `json:"closedAt,omitempty"`
}

func toSwapView(s domain.Swap) swapView {
	side := func(a domain.SwapAsset) swapAssetView {
		return swapAssetView{a.Collection, a.AssetID, a.Holder}
	}
	return swapView{
		s.ID, side(s.Offered), side(s.Requested), s.Status.String(),
		s.CreatedAt, s.ClosedAt,
	}
}

func toSwapViews(swaps []domain.Swap) []swapView {
	list := make([]swapView, 0, len(swaps))
	for _, s := range swaps {
		list = append(list, toSwapView(s))
	}
	return list
}

type collectionView struct {
	Address   string `json:"address"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`
	CreatedAt int64  `json:"createdAt"`
}

func toCollectionView(c domain.Collection) collectionView {
	return collectionView{c.Address, c.Name, c.Active, c.CreatedAt}
}

type feeCollectorView struct {
	Wallet     string `json:"wallet"`
	Percentage uint32 `json:"percentage"`
}

func toFeeCollectorViews(collectors []domain.FeeCollector) []feeCollectorView {
	list := make([]feeCollectorView, 0, len(collectors))
	for _, c := range collectors {
		list = append(list, feeCollectorView{c.Wallet, c.Percentage})
	}
	return list
}

type feePolicyView struct {
	Scale                uint32             `json:"scale"`
	Collectors           []feeCollectorView `json:"collectors"`
	PublicationFees      map[string]uint64  `json:"publicationFees"`
	PublicationFeeWallet string             `json:"publicationFeeWallet,omitempty"`
}

func toFeePolicyView(p domain.FeePolicy) feePolicyView {
	fees := map[string]uint64{}
	for _, kind := range []domain.ListingKind{
		domain.ListingKindDirectSale, domain.ListingKindAuction,
	} {
		fees[kind.String()] = p.PublicationFee(kind)
	}
	return feePolicyView{
		p.Scale, toFeeCollectorViews(p.Collectors), fees, p.PublicationFeeWallet,
	}
}

type skippedItemView struct {
	ItemID uint64 `json:"itemId"`
	Reason string `json:"reason"`
}

type jobReportView struct {
	Settled       []uint64          `json:"settled"`
	Cancelled     []uint64          `json:"cancelled"`
	Expired       []uint64          `json:"expired"`
	Skipped       []skippedItemView `json:"skipped"`
	PaidPayouts   []uint64          `json:"paidPayouts"`
	UnpaidPayouts []uint64          `json:"unpaidPayouts"`
}

func toJobReportView(r marketplace.JobReport) jobReportView {
	skipped := make([]skippedItemView, 0, len(r.Skipped))
	for _, s := range r.Skipped {
		skipped = append(skipped, skippedItemView{s.ItemID, s.Reason})
	}
	return jobReportView{
		r.Settled, r.Cancelled, r.Expired, skipped, r.PaidPayouts, r.UnpaidPayouts,
	}
}

type payoutView struct {
	ID        uint64 `json:"id"`
	ItemID    uint64 `json:"itemId"`
	Wallet    string `json:"wallet"`
	Amount    uint64 `json:"amount"`
	Reason    string `json:"reason"`
	Status    string `json:"status"`
	Attempts  int    `json:"attempts"`
	LastError string `json:"lastError,omitempty"`
	CreatedAt int64  `json:"createdAt"`
	PaidAt    int64  `json:"paidAt,omitempty"`
}

func toPayoutViews(payouts []domain.Payout) []payoutView {
	list := make([]payoutView, 0, len(payouts))
	for _, p := range payouts {
		list = append(list, payoutView{
			p.ID, p.ItemID, p.Wallet, p.Amount, p.Reason, p.Status.String(),
			p.Attempts, p.LastError, p.CreatedAt, p.PaidAt,
		})
	}
	return list
}

type webhookView struct {
	ID       string `json:"id"`
	Topic    string `json:"topic"`
	Endpoint string `json:"endpoint"`
	Secured  bool   `json:"secured"`
}

func toWebhookViews(hooks []pubsub.Webhook) []webhookView {
	list := make([]webhookView, 0, len(hooks))
	for _, h := range hooks {
		list = append(list, webhookView{h.ID, h.Topic, h.Endpoint, h.Secured})
	}
	return list
}
