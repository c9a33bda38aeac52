package networks

var AlgorandMainnet Network = NewGenericAlgorandNetwork(GenericAlgorandNetworkConfig{
	Name:             "mainnet",
	AlternativeNames: []string{"algorand", "algo"},
	GenesisID:        "mainnet-v1.0",
	BlockTime:        2.8,
	DefaultNodes: map[string]string{
		"mainnet-algonode": "https://mainnet-api.algonode.cloud",
	},
	DefaultIndexer: "https://mainnet-idx.algonode.cloud",
	NameServiceURL: "https://api.nf.domains",
	ExplorerURL:    "https://lora.algokit.io/mainnet",
})

var AlgorandTestnet Network = NewGenericAlgorandNetwork(GenericAlgorandNetworkConfig{
	Name:             "testnet",
	AlternativeNames: []string{"algorand-testnet"},
	GenesisID:        "testnet-v1.0",
	BlockTime:        2.8,
	DefaultNodes: map[string]string{
		"testnet-algonode": "https://testnet-api.algonode.cloud",
	},
	DefaultIndexer: "https://testnet-idx.algonode.cloud",
	NameServiceURL: "https://api.testnet.nf.domains",
	ExplorerURL:    "https://lora.algokit.io/testnet",
})

var AlgorandBetanet Network = NewGenericAlgorandNetwork(GenericAlgorandNetworkConfig{
	Name:      "betanet",
	GenesisID: "betanet-v1.0",
	BlockTime: 2.8,
	DefaultNodes: map[string]string{
		"betanet-algonode": "https://betanet-api.algonode.cloud",
	},
	DefaultIndexer: "https://betanet-idx.algonode.cloud",
})
