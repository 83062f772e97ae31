package server

// indexHTML is formatted with width, height, background, node radius and
// selection colour.
const indexHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Spectragraph</title>
  <style>
    body { font-family: sans-serif; margin: 1em; }
    svg { border: 1px solid #ddd; user-select: none; }
    path.link { stroke: #000; stroke-width: 4px; cursor: default; }
    path.link.selected { stroke-dasharray: 10,2; }
    circle.node { stroke: #555; stroke-width: 1.5px; }
    circle.node.hovered { stroke-width: 4px; }
    #status { color: #666; margin-top: .5em; }
  </style>
</head>
<body>
  <h1>Spectragraph</h1>
  <p>Click the canvas to add a node, drag between nodes to link them, hold Shift to move nodes,
     Delete removes the selection, <b>l</b> computes the Laplacian, <b>n</b> / <b>p</b> step through eigenvectors.</p>
  <svg id="canvas" width="%g" height="%g" style="background: %s"></svg>
  <div id="status"></div>
<script>
const R = %g, SELECT = "%s";
const svg = document.getElementById("canvas");
const status = document.getElementById("status");
const NS = "http://www.w3.org/2000/svg";

// events are posted one at a time so the server sees them in input order
let queue = Promise.resolve();
function send(ev) {
  const body = JSON.stringify(ev);
  queue = queue
    .then(() => fetch("/api/events", {method: "POST", headers: {"Content-Type": "application/json"}, body: body}))
    .catch(err => console.error(err));
  return queue;
}

function point(e) {
  const r = svg.getBoundingClientRect();
  return {x: e.clientX - r.left, y: e.clientY - r.top};
}

function draw(f) {
  while (svg.firstChild) svg.removeChild(svg.firstChild);
  for (const l of f.edges) {
    const p = document.createElementNS(NS, "path");
    p.setAttribute("class", "link" + (l.selected ? " selected" : ""));
    p.setAttribute("d", "M" + l.x1 + "," + l.y1 + "L" + l.x2 + "," + l.y2);
    if (l.selected) p.style.stroke = SELECT;
    p.addEventListener("mousedown", e => {
      e.stopPropagation();
      send({type: "pointerdown", target: "edge", edge: {source: l.source, target: l.target}});
    });
    svg.appendChild(p);
  }
  for (const n of f.nodes) {
    const c = document.createElementNS(NS, "circle");
    c.setAttribute("class", "node" + (n.hovered ? " hovered" : ""));
    c.setAttribute("cx", n.x);
    c.setAttribute("cy", n.y);
    c.setAttribute("r", R);
    c.setAttribute("fill", n.color);
    c.addEventListener("mousedown", e => { e.stopPropagation(); send({type: "pointerdown", target: "node", node: n.id}); });
    c.addEventListener("mouseup", e => { e.stopPropagation(); send({type: "pointerup", target: "node", node: n.id}); });
    c.addEventListener("mouseover", () => send({type: "pointerover", target: "node", node: n.id}));
    c.addEventListener("mouseout", () => send({type: "pointerout", target: "node", node: n.id}));
    svg.appendChild(c);
  }
  status.textContent = "revision " + f.revision + ", tick " + f.tick + ", alpha " + f.alpha.toFixed(4);
}

svg.addEventListener("mousedown", e => send(Object.assign({type: "pointerdown", target: "background"}, point(e))));
svg.addEventListener("mousemove", e => { if (e.buttons) send(Object.assign({type: "pointermove"}, point(e))); });
window.addEventListener("mouseup", () => send({type: "pointerup"}));
window.addEventListener("keydown", e => { if (!e.repeat) send({type: "keydown", key: e.key}); });
window.addEventListener("keyup", e => send({type: "keyup", key: e.key}));

const stream = new EventSource("/api/stream");
stream.addEventListener("frame", e => draw(JSON.parse(e.data)));
</script>
</body>
</html>
`
