package pinning

// Public gateway bases used to build fetchable URLs for pinned content.
const (
	pinataGatewayBase     = "https://gateway.pinata.cloud/ipfs/"
	lighthouseGatewayBase = "https://gateway.lighthouse.storage/ipfs/"
)

// GatewayURL maps a content identifier and the provider it was pinned with
// to an HTTP URL the content can be fetched from.
func GatewayURL(cid string, p Provider) string {
	if cid == "" {
		return ""
	}
	if p == ProviderLighthouse {
		return lighthouseGatewayBase + cid
	}
	return pinataGatewayBase + cid
}
